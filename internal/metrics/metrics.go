// Package metrics defines the Prometheus metrics for the portal client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the portal client.
// Pass to components that need to record metrics.
type Metrics struct {
	FetchesTotal     *prometheus.CounterVec
	FetchDuration    *prometheus.HistogramVec
	StaleReads       *prometheus.CounterVec
	HydrationBatches *prometheus.CounterVec
	SessionActive    prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		FetchesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "smartfarmer",
				Name:      "fetches_total",
				Help:      "Total collection fetches by domain and outcome",
			},
			[]string{"domain", "outcome"}, // outcome=ok/error
		),
		FetchDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "smartfarmer",
				Name:      "fetch_duration_seconds",
				Help:      "Collection fetch duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"domain"},
		),
		StaleReads: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "smartfarmer",
				Name:      "stale_reads_total",
				Help:      "Reads served from a collection past its freshness window",
			},
			[]string{"domain"},
		),
		HydrationBatches: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "smartfarmer",
				Name:      "hydration_batches_total",
				Help:      "Bulk by-ids hydration calls by sibling domain",
			},
			[]string{"domain"},
		),
		SessionActive: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "smartfarmer",
				Name:      "session_active",
				Help:      "1 when an authenticated session is held, else 0",
			},
		),
	}
}

// FetchObserved implements cache.Observer.
func (m *Metrics) FetchObserved(domain, outcome string, seconds float64) {
	m.FetchesTotal.WithLabelValues(domain, outcome).Inc()
	m.FetchDuration.WithLabelValues(domain).Observe(seconds)
}
