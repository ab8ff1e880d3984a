// Package metrics provides Prometheus metrics for designer sessions and
// layout persistence.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names.
const (
	MetricOperationsTotal      = "designer_operations_total"
	MetricOperationDuration    = "designer_operation_duration_seconds"
	MetricActiveSessions       = "designer_active_sessions"
	MetricLayoutSavesTotal     = "designer_layout_saves_total"
	MetricCacheRequestsTotal   = "designer_layout_cache_requests_total"
	MetricSessionsEvictedTotal = "designer_sessions_evicted_total"
)

// Operation outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Cache results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics contains the Prometheus collectors of the handler service.
// All operations are thread-safe.
type Metrics struct {
	operations      *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	activeSessions  prometheus.Gauge
	saves           *prometheus.CounterVec
	cacheRequests   *prometheus.CounterVec
	sessionsEvicted prometheus.Counter
}

// NewMetrics creates the collectors. They are not registered; call Register.
func NewMetrics() *Metrics {
	return &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricOperationsTotal,
				Help: "Total number of designer operations by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricOperationDuration,
				Help:    "Histogram of designer operation duration in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1},
			},
			[]string{"op"},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: MetricActiveSessions,
				Help: "Number of open designer sessions",
			},
		),
		saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricLayoutSavesTotal,
				Help: "Total number of layout saves by outcome",
			},
			[]string{"outcome"},
		),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricCacheRequestsTotal,
				Help: "Total number of saved layout cache lookups by result",
			},
			[]string{"result"},
		),
		sessionsEvicted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricSessionsEvictedTotal,
				Help: "Total number of designer sessions closed for inactivity",
			},
		),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all collectors.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.operations,
		m.duration,
		m.activeSessions,
		m.saves,
		m.cacheRequests,
		m.sessionsEvicted,
	}
}

// ObserveOperation records one designer operation.
func (m *Metrics) ObserveOperation(op, outcome string, seconds float64) {
	m.operations.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(seconds)
}

// SetActiveSessions sets the open session gauge.
func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

// IncSaves counts a layout save.
func (m *Metrics) IncSaves(outcome string) {
	m.saves.WithLabelValues(outcome).Inc()
}

// IncCacheRequests counts a saved layout cache lookup.
func (m *Metrics) IncCacheRequests(result string) {
	m.cacheRequests.WithLabelValues(result).Inc()
}

// AddSessionsEvicted counts sessions closed for inactivity.
func (m *Metrics) AddSessionsEvicted(n int) {
	m.sessionsEvicted.Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
