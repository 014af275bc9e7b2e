package screens

import (
	"context"

	"bitbucket.org/kleinnic74/photomap/domain/gps"
	"bitbucket.org/kleinnic74/photomap/geotag"
	"bitbucket.org/kleinnic74/photomap/logging"
	"go.uber.org/zap"
)

// MapScreen shows one marker per place photos were taken at. Every screen
// loads the geotags once and answers marker selections from that snapshot.
type MapScreen struct {
	geotags *geotag.Store
	groups  geotag.Groups
}

func NewMapScreen(geotags *geotag.Store) *MapScreen {
	return &MapScreen{geotags: geotags, groups: geotag.Groups{}}
}

// Load reads the geotags and groups them by place
func (m *MapScreen) Load(ctx context.Context) geotag.Groups {
	records := m.geotags.Load(ctx)
	m.groups = geotag.Group(records)
	logging.From(ctx).Named("map").Debug("Geotags loaded",
		zap.Int("records", len(records)), zap.Int("places", len(m.groups)))
	return m.groups
}

func (m *MapScreen) Groups() geotag.Groups {
	return m.groups
}

// Markers returns the markers inside bounds, or all of them when bounds is nil
func (m *MapScreen) Markers(bounds *gps.Rect) []geotag.Marker {
	if bounds == nil {
		return m.groups.Markers()
	}
	return m.groups.Within(*bounds)
}

// Select returns the photos taken at the marker placed at lat, lng
func (m *MapScreen) Select(lat, lng float64) []geotag.Record {
	return displayable(m.groups.At(lat, lng))
}

// SelectMarker returns the photos of the marker with the given id
func (m *MapScreen) SelectMarker(id string) ([]geotag.Record, bool) {
	records, found := m.groups.ByMarkerID(id)
	return displayable(records), found
}

// displayable keeps the records which can be shown as a thumbnail
func displayable(records []geotag.Record) []geotag.Record {
	out := make([]geotag.Record, 0, len(records))
	for _, r := range records {
		if r.PhotoID != "" && r.URI != "" {
			out = append(out, r)
		}
	}
	return out
}
