package screens

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	capturesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photomap_captures_total",
		Help: "Number of photo captures by result",
	}, []string{"result"})
	deletedPhotos = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photomap_deleted_photos_total",
		Help: "Number of photos deleted from the album",
	})
	geotagWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photomap_geotag_writes_total",
		Help: "Number of successful geotag store mutations by operation",
	}, []string{"op"})
	geotagFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photomap_geotag_failures_total",
		Help: "Number of failed, and ignored, geotag store mutations by operation",
	}, []string{"op"})
)
