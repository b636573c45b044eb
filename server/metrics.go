package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records catalog server activity.
type Metrics struct {
	requests        *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
}

// NewMetrics registers the catalog metrics with registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modelcatalog_requests_total",
				Help: "Total number of catalog HTTP requests",
			},
			[]string{"route", "status"},
		),
		providerLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "modelcatalog_provider_duration_seconds",
				Help:    "Latency of provider model listings",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "status"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modelcatalog_cache_lookups_total",
				Help: "Catalog cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) ObserveRequest(route, status string) {
	m.requests.WithLabelValues(route, status).Inc()
}

func (m *Metrics) ObserveProvider(provider string, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.providerLatency.WithLabelValues(provider, status).Observe(elapsed.Seconds())
}

// ObserveCache records a cache lookup result: hit, miss or error.
func (m *Metrics) ObserveCache(result string) {
	m.cacheLookups.WithLabelValues(result).Inc()
}
