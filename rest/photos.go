package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"bitbucket.org/kleinnic74/photomap/consts"
	"bitbucket.org/kleinnic74/photomap/domain/gps"
	"bitbucket.org/kleinnic74/photomap/logging"
	"bitbucket.org/kleinnic74/photomap/media"
	"bitbucket.org/kleinnic74/photomap/rest/views"
	"bitbucket.org/kleinnic74/photomap/screens"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxCaptureMemory = 8 << 20

// PhotosHandler serves the camera, gallery and viewer screens
type PhotosHandler struct {
	album       media.Library
	camera      *screens.CameraScreen
	gallery     *screens.GalleryScreen
	viewer      *screens.ViewerScreen
	permissions *screens.Permissions
}

func NewPhotosHandler(album media.Library, camera *screens.CameraScreen, gallery *screens.GalleryScreen, viewer *screens.ViewerScreen, permissions *screens.Permissions) *PhotosHandler {
	return &PhotosHandler{
		album:       album,
		camera:      camera,
		gallery:     gallery,
		viewer:      viewer,
		permissions: permissions,
	}
}

func (h *PhotosHandler) InitRoutes(r *mux.Router) {
	r.HandleFunc("/photos/{id}/content", h.getContent).Methods("GET")
	r.HandleFunc("/photos/{id}/thumb/{size}", h.getThumb).Methods("GET")
	r.HandleFunc("/photos/{id}", h.getPhoto).Methods("GET")
	r.HandleFunc("/photos/{id}", h.deletePhoto).Methods("DELETE")
	r.HandleFunc("/photos", h.getPhotos).Methods("GET")
	r.HandleFunc("/photos", h.capture).Methods("POST")
	r.HandleFunc("/photos", h.deletePhotos).Methods("DELETE")
}

func listOptionsFrom(r *http.Request) (media.ListOptions, error) {
	o := media.DefaultListOptions()
	q := r.URL.Query()
	if first := q.Get("first"); first != "" {
		n, err := strconv.Atoi(first)
		if err != nil || n <= 0 {
			return o, fmt.Errorf("bad value for first: %q", first)
		}
		o.First = n
	}
	if order := q.Get("order"); order != "" {
		o.Order = consts.SortOrderFrom(order)
	}
	return o, nil
}

func (h *PhotosHandler) getPhotos(w http.ResponseWriter, r *http.Request) {
	o, err := listOptionsFrom(r)
	if err != nil {
		Respond(r).WithError(w, http.StatusBadRequest, err)
		return
	}
	session := screens.NewSession(r.Context())
	defer session.Close()
	assets, err := screens.Do(session, func(ctx context.Context) ([]*media.Asset, error) {
		return h.gallery.List(ctx, o)
	})
	if err != nil {
		Respond(r).WithError(w, statusFor(err), err)
		return
	}
	logging.From(r.Context()).Named("http").Debug("/photos", zap.Int("count", len(assets)), zap.Int("first", o.First))
	Respond(r).WithJSON(w, http.StatusOK, views.PhotosFrom(assets))
}

// locationFrom reads the optional lat and lng form values
func locationFrom(r *http.Request) (*gps.Coordinates, error) {
	lat, lng := r.FormValue("lat"), r.FormValue("lng")
	if lat == "" && lng == "" {
		return nil, nil
	}
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude %q", lat)
	}
	longitude, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude %q", lng)
	}
	at := gps.NewCoordinates(latitude, longitude)
	if !at.Valid() {
		return nil, fmt.Errorf("coordinates %s out of range", at)
	}
	return &at, nil
}

func (h *PhotosHandler) capture(w http.ResponseWriter, r *http.Request) {
	log, ctx := logging.SubFrom(r.Context(), "capture")
	if err := r.ParseMultipartForm(maxCaptureMemory); err != nil {
		Respond(r).WithError(w, http.StatusBadRequest, err)
		return
	}
	file, _, err := r.FormFile("photo")
	if err != nil {
		Respond(r).WithError(w, http.StatusBadRequest, fmt.Errorf("missing photo: %w", err))
		return
	}
	defer file.Close()

	switch r.FormValue("location") {
	case "granted":
		h.permissions.Report(ctx, screens.Location, true)
	case "denied":
		h.permissions.Report(ctx, screens.Location, false)
	}
	var at *gps.Coordinates
	if h.permissions.Allowed(screens.Location) {
		// a photo is taken even when its location is unusable
		if at, err = locationFrom(r); err != nil {
			screens.IgnoreLocation(ctx, err)
		}
	}
	asset, err := h.camera.Capture(ctx, screens.CaptureRequest{Content: file, Location: at})
	if err != nil {
		log.Warn("Capture failed", zap.Error(err))
		Respond(r).WithError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/photos/%s", asset.ID))
	Respond(r).WithJSON(w, http.StatusCreated, views.PhotoFrom(asset, nil))
}

type deleteRequest struct {
	IDs []string `json:"ids"`
}

type deleteResponse struct {
	Deleted int `json:"deleted"`
}

func (h *PhotosHandler) deletePhotos(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Respond(r).WithError(w, http.StatusBadRequest, fmt.Errorf("bad delete request: %w", err))
		return
	}
	if err := h.gallery.Delete(r.Context(), req.IDs); err != nil {
		Respond(r).WithError(w, statusFor(err), err)
		return
	}
	Respond(r).WithJSON(w, http.StatusOK, deleteResponse{Deleted: len(req.IDs)})
}

func (h *PhotosHandler) getPhoto(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	photo, err := h.viewer.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			err = fmt.Errorf("no photo with id %s", id)
			Respond(r).WithError(w, http.StatusNotFound, err)
			return
		}
		Respond(r).WithError(w, statusFor(err), err)
		return
	}
	Respond(r).WithJSON(w, http.StatusOK, views.PhotoFrom(photo.Asset, photo.Geotag))
}

func (h *PhotosHandler) deletePhoto(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.viewer.Delete(r.Context(), id); err != nil {
		Respond(r).WithError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PhotosHandler) getContent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	share := r.URL.Query().Get("share") == "true"
	var (
		content io.ReadCloser
		asset   *media.Asset
		err     error
	)
	if share {
		content, asset, err = h.viewer.Share(r.Context(), id)
	} else {
		content, asset, err = h.album.Open(r.Context(), id)
	}
	if err != nil {
		Respond(r).WithError(w, statusFor(err), err)
		return
	}
	defer content.Close()
	if share {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": asset.Filename}))
	}
	respondWithBinary(w, r, asset.Mime, asset.Size, content)
}

func (h *PhotosHandler) getThumb(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	size, err := media.ThumbSizeFor(vars["size"])
	if err != nil {
		Respond(r).WithError(w, http.StatusBadRequest, err)
		return
	}
	thumb, err := h.album.Thumb(r.Context(), id, size)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			logging.From(r.Context()).Error("Internal error", zap.String("id", id), zap.Error(err))
		}
		Respond(r).WithError(w, statusFor(err), err)
		return
	}
	if err := respondWithImage(w, media.JPEG, thumb); err != nil {
		logging.From(r.Context()).Warn("Failed to encode thumb", zap.Error(err))
	}
}
