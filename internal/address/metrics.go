package address

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "owl",
		Name:      "address_checks_total",
		Help:      "Finished address checks by result.",
	}, []string{"result"})

	variantsTried = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "owl",
		Name:      "address_check_variants_tried",
		Help:      "Variants geocoded before a check reached its answer.",
		Buckets:   prometheus.LinearBuckets(1, 1, 10),
	})
)
