package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bitbucket.org/kleinnic74/photomap/events"
	"bitbucket.org/kleinnic74/photomap/logging"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type SSEHandler struct {
	events *events.Stream
}

func NewSSEHandler(stream *events.Stream) *SSEHandler {
	return &SSEHandler{
		events: stream,
	}
}

func (e *SSEHandler) InitRoutes(router *mux.Router) {
	router.HandleFunc("/eventstream", e.listen).Methods("GET").Name("/eventstream")
}

func (e *SSEHandler) listen(w http.ResponseWriter, r *http.Request) {
	logger := logging.From(r.Context())
	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Warn("HTTP Flusher not supported")
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	e.events.Listen(r.Context(), func(event events.Event) {
		data, err := json.Marshal(event)
		if err != nil {
			logger.Warn("Cannot encode event", zap.String("name", event.Name), zap.Error(err))
			return
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, data); err != nil {
			return
		}
		flusher.Flush()
	})
}
