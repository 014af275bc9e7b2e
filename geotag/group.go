package geotag

import (
	"encoding/hex"
	"sort"

	"bitbucket.org/kleinnic74/photomap/domain/gps"
	"github.com/reusee/mmh3"
)

// Precision is the number of decimals coordinates are rounded to before
// grouping, about 1.1m at the equator
const Precision = 5

// Groups maps a quantization key to the records taken at that place, in
// the order of the input list
type Groups map[string][]Record

// Key returns the quantization key of a place, both coordinates rounded to
// Precision decimals and joined by a comma
func Key(lat, lng float64) string {
	return gps.Fixed(lat, Precision) + "," + gps.Fixed(lng, Precision)
}

// Group assigns every record with a location to the group of its rounded
// coordinates. Records without location are left out.
func Group(records []Record) Groups {
	groups := make(Groups)
	for _, r := range records {
		if !r.HasLocation() {
			continue
		}
		key := Key(r.Latitude, r.Longitude)
		groups[key] = append(groups[key], r)
	}
	return groups
}

// At returns the records taken at the place lat, lng rounds to
func (g Groups) At(lat, lng float64) []Record {
	return g[Key(lat, lng)]
}

// Marker is a single place on the map with one or more photos
type Marker struct {
	ID        string  `json:"id"`
	Key       string  `json:"key"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int     `json:"count"`
}

// MarkerID derives a short stable identifier from a quantization key
func MarkerID(key string) string {
	h := mmh3.New32()
	h.Write([]byte(key))
	return hex.EncodeToString(h.Sum(nil))
}

// Markers returns one marker per group, placed at the first photo of the
// group and sorted by key
func (g Groups) Markers() []Marker {
	markers := make([]Marker, 0, len(g))
	for key, records := range g {
		first := records[0]
		markers = append(markers, Marker{
			ID:        MarkerID(key),
			Key:       key,
			Latitude:  first.Latitude,
			Longitude: first.Longitude,
			Count:     len(records),
		})
	}
	sort.Slice(markers, func(i, j int) bool { return markers[i].Key < markers[j].Key })
	return markers
}

// Within returns the markers placed inside bounds
func (g Groups) Within(bounds gps.Rect) []Marker {
	var inside []Marker
	for _, m := range g.Markers() {
		if gps.PointFromLatLon(m.Latitude, m.Longitude).In(bounds) {
			inside = append(inside, m)
		}
	}
	return inside
}

// ByMarkerID returns the records of the group with the given marker id
func (g Groups) ByMarkerID(id string) ([]Record, bool) {
	for key, records := range g {
		if MarkerID(key) == id {
			return records, true
		}
	}
	return nil, false
}
