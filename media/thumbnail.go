package media

import (
	"fmt"
	"image"

	"github.com/disintegration/gift"
)

var (
	Small  = ThumbSize{120, "S"}
	Medium = ThumbSize{427, "M"}
	Large  = ThumbSize{640, "L"}

	ThumbSizes = map[string]ThumbSize{
		Small.Name:  Small,
		Medium.Name: Medium,
		Large.Name:  Large,
	}
)

type ThumbSize struct {
	width int
	Name  string
}

// ThumbSizeFor returns the thumb size of the given name (S, M or L)
func ThumbSizeFor(name string) (ThumbSize, error) {
	size, found := ThumbSizes[name]
	if !found {
		return ThumbSize{}, fmt.Errorf("unknown thumb size %q", name)
	}
	return size, nil
}

// BoundsOf scales img so that its longest side is the width of the size
func (size ThumbSize) BoundsOf(img image.Rectangle) image.Rectangle {
	if img.Dx() > img.Dy() {
		return image.Rect(0, 0, size.width, (size.width*img.Dy())/img.Dx())
	}
	return image.Rect(0, 0, (size.width*img.Dx())/img.Dy(), size.width)
}

func createThumb(img image.Image, size ThumbSize) image.Image {
	targetSize := size.BoundsOf(img.Bounds())
	thumb := image.NewRGBA(targetSize)
	filter := gift.New(
		gift.ResizeToFit(targetSize.Dx(), targetSize.Dy(), gift.LinearResampling),
	)
	filter.Draw(thumb, img)
	return thumb
}
