package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"bitbucket.org/kleinnic74/photomap/domain/gps"
	"bitbucket.org/kleinnic74/photomap/geotag"
	"bitbucket.org/kleinnic74/photomap/rest/views"
	"bitbucket.org/kleinnic74/photomap/screens"
	"github.com/gorilla/mux"
)

// MapHandler serves the map screen. Every request groups a fresh snapshot
// of the geotags.
type MapHandler struct {
	geotags *geotag.Store
}

func NewMapHandler(geotags *geotag.Store) *MapHandler {
	return &MapHandler{geotags: geotags}
}

func (m *MapHandler) InitRoutes(r *mux.Router) {
	r.HandleFunc("/map/markers", m.getMarkers).Methods("GET")
	r.HandleFunc("/map/photos", m.getPhotos).Methods("GET")
	r.HandleFunc("/map/groups", m.getGroups).Methods("GET")
}

func (m *MapHandler) load(r *http.Request) (*screens.MapScreen, error) {
	session := screens.NewSession(r.Context())
	defer session.Close()
	return screens.Do(session, func(ctx context.Context) (*screens.MapScreen, error) {
		screen := screens.NewMapScreen(m.geotags)
		screen.Load(ctx)
		return screen, nil
	})
}

func (m *MapHandler) getMarkers(w http.ResponseWriter, r *http.Request) {
	var bounds *gps.Rect
	if bbox := r.URL.Query().Get("bbox"); bbox != "" {
		rect, err := gps.ParseRect(bbox)
		if err != nil {
			Respond(r).WithError(w, http.StatusBadRequest, err)
			return
		}
		bounds = &rect
	}
	screen, err := m.load(r)
	if err != nil {
		Respond(r).WithError(w, statusFor(err), err)
		return
	}
	markers := screen.Markers(bounds)
	if markers == nil {
		markers = []geotag.Marker{}
	}
	Respond(r).WithJSON(w, http.StatusOK, markers)
}

func parseCoordinate(r *http.Request, name string) (float64, error) {
	s := r.URL.Query().Get(name)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !gps.IsFinite(v) {
		return 0, fmt.Errorf("bad value for %s: %q", name, s)
	}
	return v, nil
}

// getPhotos returns the photos of the marker given either by id or by the
// lat, lng it is placed at
func (m *MapHandler) getPhotos(w http.ResponseWriter, r *http.Request) {
	screen, err := m.load(r)
	if err != nil {
		Respond(r).WithError(w, statusFor(err), err)
		return
	}
	if id := r.URL.Query().Get("marker"); id != "" {
		records, found := screen.SelectMarker(id)
		if !found {
			Respond(r).WithError(w, http.StatusNotFound, fmt.Errorf("no marker with id %s", id))
			return
		}
		Respond(r).WithJSON(w, http.StatusOK, views.LocatedFrom(records))
		return
	}
	lat, err := parseCoordinate(r, "lat")
	if err != nil {
		Respond(r).WithError(w, http.StatusBadRequest, err)
		return
	}
	lng, err := parseCoordinate(r, "lng")
	if err != nil {
		Respond(r).WithError(w, http.StatusBadRequest, err)
		return
	}
	Respond(r).WithJSON(w, http.StatusOK, views.LocatedFrom(screen.Select(lat, lng)))
}

func (m *MapHandler) getGroups(w http.ResponseWriter, r *http.Request) {
	screen, err := m.load(r)
	if err != nil {
		Respond(r).WithError(w, statusFor(err), err)
		return
	}
	Respond(r).WithJSON(w, http.StatusOK, screen.Groups())
}
