package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"bitbucket.org/kleinnic74/photomap/consts"
	"bitbucket.org/kleinnic74/photomap/events"
	"bitbucket.org/kleinnic74/photomap/geotag"
	"bitbucket.org/kleinnic74/photomap/kvstore"
	"bitbucket.org/kleinnic74/photomap/media"
	"bitbucket.org/kleinnic74/photomap/rest/views"
	"bitbucket.org/kleinnic74/photomap/screens"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	router  *mux.Router
	album   *media.Album
	geotags *geotag.Store
	bus     *events.Stream
}

func newTestApp(t *testing.T) *testApp {
	album, err := media.OpenAlbum(filepath.Join(t.TempDir(), "album"), consts.AlbumName)
	require.NoError(t, err)
	a := &testApp{
		router:  mux.NewRouter(),
		album:   album,
		geotags: geotag.NewStore(kvstore.NewMemory()),
		bus:     events.NewStream(),
	}
	permissions := screens.NewPermissions(a.bus)
	handlers := []Routes{
		NewPhotosHandler(album,
			screens.NewCameraScreen(album, a.geotags, permissions, a.bus),
			screens.NewGalleryScreen(album, a.geotags, permissions, a.bus),
			screens.NewViewerScreen(album, a.geotags, a.bus),
			permissions),
		NewMapHandler(a.geotags),
		NewPermissionsHandler(permissions),
		NewSSEHandler(a.bus),
	}
	for _, h := range handlers {
		h.InitRoutes(a.router)
	}
	a.router.Use(Instrument)
	return a
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	WithMiddleWares(a.router, "test").ServeHTTP(rr, req)
	return rr
}

func jpegBytes(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 24)), nil))
	return buf.Bytes()
}

func captureRequest(t *testing.T, content []byte, fields map[string]string) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("photo", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/photos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (a *testApp) capture(t *testing.T, lat, lng string) views.Photo {
	fields := map[string]string{}
	if lat != "" {
		fields["lat"], fields["lng"] = lat, lng
	}
	resp := a.do(captureRequest(t, jpegBytes(t), fields))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var p views.Photo
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &p))
	return p
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

func TestCaptureAndList(t *testing.T) {
	a := newTestApp(t)
	p := a.capture(t, "50.065718", "19.943022")
	assert.Equal(t, "/photos/"+p.ID, p.Links["self"])

	resp := a.do(httptest.NewRequest(http.MethodGet, "/photos", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("X-Request-ID"))
	photos := decode[[]views.Photo](t, resp)
	require.Len(t, photos, 1)
	assert.Equal(t, p.ID, photos[0].ID)

	resp = a.do(httptest.NewRequest(http.MethodGet, "/photos/"+p.ID, nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	got := decode[views.Photo](t, resp)
	require.NotNil(t, got.Location)
	assert.Equal(t, 50.065718, got.Location.Lat())
}

func TestCaptureRejectsBadInput(t *testing.T) {
	a := newTestApp(t)
	resp := a.do(captureRequest(t, []byte("not a photo"), nil))
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.Code)

	resp = a.do(httptest.NewRequest(http.MethodGet, "/photos?first=0", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCaptureWithUnusableLocation(t *testing.T) {
	locations := []map[string]string{
		{"lat": "95", "lng": "10"},
		{"lat": "50.06"},
		{"lat": "NaN", "lng": "19"},
		{"lat": "north", "lng": "19"},
		{"lat": "NaN", "lng": "19", "location": "denied"},
	}
	for _, fields := range locations {
		a := newTestApp(t)
		resp := a.do(captureRequest(t, jpegBytes(t), fields))
		assert.Equal(t, http.StatusCreated, resp.Code, "%v: %s", fields, resp.Body.String())
		assert.Empty(t, a.geotags.Load(context.Background()), "%v", fields)

		resp = a.do(httptest.NewRequest(http.MethodGet, "/photos", nil))
		assert.Len(t, decode[[]views.Photo](t, resp), 1, "%v", fields)
	}
}

func TestCaptureWithLocationDenied(t *testing.T) {
	a := newTestApp(t)
	resp := a.do(captureRequest(t, jpegBytes(t), map[string]string{"lat": "50", "lng": "19", "location": "denied"}))
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Empty(t, a.geotags.Load(context.Background()))
}

func TestGetUnknownPhoto(t *testing.T) {
	a := newTestApp(t)
	resp := a.do(httptest.NewRequest(http.MethodGet, "/photos/f47ac10b-58cc-4372-a567-0e02b2c3d479", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, decode[map[string]string](t, resp)["error"], "no photo with id")
}

func TestContentAndThumb(t *testing.T) {
	a := newTestApp(t)
	p := a.capture(t, "", "")

	resp := a.do(httptest.NewRequest(http.MethodGet, "/photos/"+p.ID+"/content", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "image/jpeg", resp.Header().Get("Content-Type"))
	assert.Empty(t, resp.Header().Get("Content-Disposition"))
	assert.Equal(t, jpegBytes(t), resp.Body.Bytes())

	resp = a.do(httptest.NewRequest(http.MethodGet, "/photos/"+p.ID+"/content?share=true", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.HasPrefix(resp.Header().Get("Content-Disposition"), "attachment"))

	resp = a.do(httptest.NewRequest(http.MethodGet, "/photos/"+p.ID+"/thumb/S", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	_, err := jpeg.Decode(resp.Body)
	assert.NoError(t, err)

	resp = a.do(httptest.NewRequest(http.MethodGet, "/photos/"+p.ID+"/thumb/XL", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDeletePhotos(t *testing.T) {
	a := newTestApp(t)
	p1 := a.capture(t, "50", "19")
	p2 := a.capture(t, "50", "19")
	p3 := a.capture(t, "51", "20")

	body, _ := json.Marshal(deleteRequest{IDs: []string{p1.ID, p2.ID}})
	resp := a.do(httptest.NewRequest(http.MethodDelete, "/photos", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 2, decode[deleteResponse](t, resp).Deleted)

	resp = a.do(httptest.NewRequest(http.MethodDelete, "/photos/"+p3.ID, nil))
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Empty(t, a.geotags.Load(context.Background()))

	resp = a.do(httptest.NewRequest(http.MethodDelete, "/photos/"+p3.ID, nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMapMarkersAndSelection(t *testing.T) {
	a := newTestApp(t)
	p1 := a.capture(t, "50.065718", "19.943022")
	p2 := a.capture(t, "50.0657185", "19.9430224")
	a.capture(t, "52.2297", "21.0122")
	a.capture(t, "", "")

	resp := a.do(httptest.NewRequest(http.MethodGet, "/map/markers", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	markers := decode[[]geotag.Marker](t, resp)
	require.Len(t, markers, 2)
	assert.Equal(t, "50.06572,19.94302", markers[0].Key)
	assert.Equal(t, 2, markers[0].Count)

	resp = a.do(httptest.NewRequest(http.MethodGet, "/map/markers?bbox=20.5,52,21.5,53", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	inside := decode[[]geotag.Marker](t, resp)
	require.Len(t, inside, 1)
	assert.Equal(t, "52.22970,21.01220", inside[0].Key)

	resp = a.do(httptest.NewRequest(http.MethodGet, "/map/markers?bbox=1,2,3", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = a.do(httptest.NewRequest(http.MethodGet, "/map/photos?lat=50.065718&lng=19.943022", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	selected := decode[[]views.Located](t, resp)
	require.Len(t, selected, 2)
	assert.Equal(t, p1.ID, selected[0].ID)
	assert.Equal(t, p2.ID, selected[1].ID)

	resp = a.do(httptest.NewRequest(http.MethodGet, "/map/photos?marker="+markers[0].ID, nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[[]views.Located](t, resp), 2)

	resp = a.do(httptest.NewRequest(http.MethodGet, "/map/photos?marker=nope", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = a.do(httptest.NewRequest(http.MethodGet, "/map/groups", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	groups := decode[map[string][]geotag.Record](t, resp)
	assert.Len(t, groups, 2)
	assert.Len(t, groups["50.06572,19.94302"], 2)
}

func TestReportPermission(t *testing.T) {
	a := newTestApp(t)
	resp := a.do(httptest.NewRequest(http.MethodPut, "/permissions/media-library", strings.NewReader(`{"granted":false}`)))
	require.Equal(t, http.StatusOK, resp.Code)
	states := decode[map[string]string](t, resp)
	assert.Equal(t, "denied", states["media-library"])

	resp = a.do(httptest.NewRequest(http.MethodGet, "/photos", nil))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = a.do(httptest.NewRequest(http.MethodPut, "/permissions/microphone", strings.NewReader(`{"granted":true}`)))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	resp = a.do(httptest.NewRequest(http.MethodPut, "/permissions/camera", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
