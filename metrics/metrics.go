package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service's collectors so they can be registered on any
// registry; tests use a fresh one each.
type Metrics struct {
	Requests        *prometheus.CounterVec
	Latency         *prometheus.HistogramVec
	Classifications *prometheus.CounterVec
	Selections      *prometheus.CounterVec
	HeldCarts       prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jpos",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jpos",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jpos",
			Name:      "option_classifications_total",
			Help:      "Attribute options classified, by status.",
		}, []string{"status"}),
		Selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jpos",
			Name:      "selection_actions_total",
			Help:      "Selection surface actions, by action.",
		}, []string{"action"}),
		HeldCarts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "jpos",
			Name:      "held_carts",
			Help:      "Held carts seen on the last read of the held-cart store.",
		}),
	}
	reg.MustRegister(m.Requests, m.Latency, m.Classifications, m.Selections, m.HeldCarts)
	return m
}
