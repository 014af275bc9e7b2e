package media

import (
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThumbnailSize(t *testing.T) {
	data := []struct {
		thumb ThumbSize
		in    image.Rectangle
		out   image.Rectangle
	}{
		{Medium, image.Rect(0, 0, 1920, 1080), image.Rect(0, 0, Medium.width, 1080*Medium.width/1920)},
		{Medium, image.Rect(0, 0, 1080, 1920), image.Rect(0, 0, 1080*Medium.width/1920, Medium.width)},
		{Small, image.Rect(0, 0, 500, 1000), image.Rect(0, 0, 500*Small.width/1000, Small.width)},
	}
	for i, d := range data {
		t.Run(fmt.Sprintf("#%d", i), func(t *testing.T) {
			actual := d.thumb.BoundsOf(d.in)
			if actual != d.out {
				t.Errorf("Bad resulting thumb size %s: expected %s, got %s", d.thumb.Name, d.out, actual)
			}
		})
	}
}

func TestThumbSizeFor(t *testing.T) {
	size, err := ThumbSizeFor("L")
	assert.NoError(t, err)
	assert.Equal(t, Large, size)
	_, err = ThumbSizeFor("XL")
	assert.Error(t, err)
}
