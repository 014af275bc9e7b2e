package media

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/h2non/filetype"
)

// Format is a supported photo encoding
type Format struct {
	Ext    string
	Mime   string
	encode func(io.Writer, image.Image) error
}

func (f Format) Encode(w io.Writer, img image.Image) error {
	return f.encode(w, img)
}

var (
	JPEG = Format{"jpg", "image/jpeg", func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 85})
	}}
	PNG = Format{"png", "image/png", png.Encode}

	formatsByExt = map[string]Format{
		JPEG.Ext: JPEG,
		PNG.Ext:  PNG,
	}
)

// FormatOf sniffs the format from the first bytes of a file
func FormatOf(header []byte) (Format, error) {
	kind, err := filetype.Match(header)
	if err != nil {
		return Format{}, err
	}
	if !filetype.IsImage(header) {
		return Format{}, ErrUnsupportedFormat
	}
	f, found := formatsByExt[kind.Extension]
	if !found {
		return Format{}, ErrUnsupportedFormat
	}
	return f, nil
}

// FormatForExt returns the format of a file extension without leading dot
func FormatForExt(ext string) (Format, bool) {
	f, found := formatsByExt[ext]
	return f, found
}
