// Package rest exposes the camera, gallery, viewer and map screens over HTTP.
package rest

import (
	"errors"
	"net/http"

	"bitbucket.org/kleinnic74/photomap/geotag"
	"bitbucket.org/kleinnic74/photomap/media"
	"bitbucket.org/kleinnic74/photomap/screens"
	"github.com/gorilla/mux"
)

// Routes is implemented by every handler of this package
type Routes interface {
	InitRoutes(r *mux.Router)
}

// statusFor maps the errors of the screens to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, media.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, media.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, geotag.ErrInvalidRecord):
		return http.StatusBadRequest
	case errors.Is(err, screens.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, screens.ErrSessionClosed):
		// client went away, nobody reads this
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
