package rest

import (
	"encoding/json"
	"image"
	"io"
	"net/http"
	"strconv"

	"bitbucket.org/kleinnic74/photomap/logging"
	"bitbucket.org/kleinnic74/photomap/media"
	"go.uber.org/zap"
)

// Responder writes JSON replies, failures to write are logged with the
// logger of the request
type Responder interface {
	WithJSON(http.ResponseWriter, int, interface{})
	WithError(http.ResponseWriter, int, error)
}

type responder struct {
	indent bool
	log    *zap.Logger
}

// Respond returns the responder for r, ?pretty=true indents the JSON
func Respond(r *http.Request) Responder {
	return responder{
		indent: r.URL.Query().Get("pretty") == "true",
		log:    logging.From(r.Context()),
	}
}

func (r responder) WithError(w http.ResponseWriter, status int, err error) {
	r.WithJSON(w, status, map[string]string{"error": err.Error()})
}

func (r responder) WithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	if r.indent {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(payload); err != nil {
		r.log.Warn("Failed to write response", zap.Int("status", status), zap.Error(err))
	}
}

func respondWithBinary(w http.ResponseWriter, r *http.Request, mime string, size int64, data io.Reader) {
	w.Header().Set("Content-Type", mime)
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if n, err := io.Copy(w, data); err != nil {
		logging.From(r.Context()).Warn("Content transfer aborted", zap.String("mime", mime), zap.Int64("sent", n), zap.Error(err))
	}
}

func respondWithImage(w http.ResponseWriter, format media.Format, img image.Image) error {
	w.Header().Set("Content-Type", format.Mime)
	w.WriteHeader(http.StatusOK)
	return format.Encode(w, img)
}
