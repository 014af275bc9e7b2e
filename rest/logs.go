package rest

import (
	"net/http"

	"bitbucket.org/kleinnic74/photomap/logging"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type logsHandler struct{}

func NewLogsHandler() logsHandler {
	return logsHandler{}
}

func (l logsHandler) InitRoutes(r *mux.Router) {
	r.Handle("/logs", l).Methods("GET")
}

// ServeHTTP writes the most recent log lines, newest first unless
// ?order=asc is given
func (l logsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if err := logging.Dump(w, r.URL.Query().Get("order") != "asc"); err != nil {
		logging.From(r.Context()).Warn("Failed to dump logs", zap.Error(err))
	}
}
