package email

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "owl",
	Name:      "emails_sent_total",
	Help:      "Outbound email attempts by outcome (sent, failed, shutoff).",
}, []string{"outcome"})
