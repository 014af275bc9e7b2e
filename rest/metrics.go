package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "photomap_http_request_duration_seconds",
	Help:    "Duration of HTTP requests by route",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route", "status"})

type MetricsHandler struct {
	handler http.Handler
}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{
		handler: promhttp.Handler(),
	}
}

func (m *MetricsHandler) InitRoutes(r *mux.Router) {
	r.Handle("/metrics", m.handler).Methods("GET")
}

// Instrument is a router middleware observing the duration of every
// matched route
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unknown"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		start := time.Now()
		wrapper := &responseWrapper{writer: w, status: http.StatusOK}
		next.ServeHTTP(wrapper, r)
		requestDuration.WithLabelValues(r.Method, route, strconv.Itoa(wrapper.status)).Observe(time.Since(start).Seconds())
	})
}
