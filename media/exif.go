package media

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// takenAt reads the capture time from the EXIF data of a photo
func takenAt(content []byte) (time.Time, bool) {
	x, err := exif.Decode(bytes.NewReader(content))
	if err != nil {
		return time.Time{}, false
	}
	ts, err := x.DateTime()
	if err != nil || ts.IsZero() {
		return time.Time{}, false
	}
	return ts, true
}
