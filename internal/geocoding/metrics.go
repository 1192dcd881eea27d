package geocoding

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	geocodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "owl",
		Name:      "geocode_requests_total",
		Help:      "Geocoder lookups by outcome.",
	}, []string{"outcome"})

	geocodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "owl",
		Name:      "geocode_duration_seconds",
		Help:      "Latency of outbound geocoder requests.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})
)
