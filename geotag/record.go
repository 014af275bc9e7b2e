package geotag

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"bitbucket.org/kleinnic74/photomap/domain/gps"
)

// ErrInvalidRecord is returned when appending a record without identity or
// with coordinates that are not finite numbers
var ErrInvalidRecord = errors.New("invalid geotag record")

// Record associates a photo of the album with the place and time it was
// taken at. Its JSON form is the persisted layout and must stay stable.
type Record struct {
	PhotoID   string  `json:"id"`
	URI       string  `json:"uri"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// Timestamp is the capture time in milliseconds since the epoch
	Timestamp int64 `json:"timestamp"`
}

// NewRecord creates a record for a photo captured at the given time and place
func NewRecord(photoID, uri string, at gps.Coordinates, taken time.Time) Record {
	return Record{
		PhotoID:   photoID,
		URI:       uri,
		Latitude:  at.Lat(),
		Longitude: at.Long(),
		Timestamp: taken.UnixNano() / int64(time.Millisecond),
	}
}

// UnmarshalJSON accepts null or missing coordinates, which decode to 0
// and exclude the record from grouping
func (r *Record) UnmarshalJSON(buf []byte) error {
	var data struct {
		PhotoID   *string  `json:"id"`
		URI       *string  `json:"uri"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Timestamp *float64 `json:"timestamp"`
	}
	if err := json.Unmarshal(buf, &data); err != nil {
		return err
	}
	*r = Record{}
	if data.PhotoID != nil {
		r.PhotoID = *data.PhotoID
	}
	if data.URI != nil {
		r.URI = *data.URI
	}
	if data.Latitude != nil {
		r.Latitude = *data.Latitude
	}
	if data.Longitude != nil {
		r.Longitude = *data.Longitude
	}
	if data.Timestamp != nil {
		r.Timestamp = int64(*data.Timestamp)
	}
	return nil
}

// Taken returns the capture time
func (r Record) Taken() time.Time {
	return time.Unix(0, r.Timestamp*int64(time.Millisecond))
}

// Coordinates returns the place the photo was taken at
func (r Record) Coordinates() gps.Coordinates {
	return gps.NewCoordinates(r.Latitude, r.Longitude)
}

// HasLocation reports whether both coordinates are set, a coordinate which
// is exactly 0 counts as missing
func (r Record) HasLocation() bool {
	return isSet(r.Latitude) && isSet(r.Longitude)
}

func isSet(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}

// Validate checks the record can be stored
func (r Record) Validate() error {
	if r.PhotoID == "" {
		return fmt.Errorf("%w: missing photo id", ErrInvalidRecord)
	}
	if r.URI == "" {
		return fmt.Errorf("%w: missing uri for photo %s", ErrInvalidRecord, r.PhotoID)
	}
	if !gps.IsFinite(r.Latitude) || !gps.IsFinite(r.Longitude) {
		return fmt.Errorf("%w: coordinates of photo %s are not finite", ErrInvalidRecord, r.PhotoID)
	}
	return nil
}
