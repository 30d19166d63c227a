// Package metrics exposes Prometheus collectors for the HTTP surface and the songs storage.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/contre95/songbook/src/songbook"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Outcome labels for storage queries.
const (
	outcomeOK          = "ok"
	outcomeUnavailable = "unavailable"
	outcomeError       = "error"
)

// Manager owns the registry and every collector of the service.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	storageQueries      *prometheus.CounterVec
	storageDuration     *prometheus.HistogramVec
	breakerState        *prometheus.GaugeVec
}

// NewManager creates a metrics manager on its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "songbook",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "route"})

	m.storageQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "storage",
		Name:      "queries_total",
		Help:      "Storage queries by operation and outcome.",
	}, []string{"op", "outcome"})

	m.storageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "storage",
		Name:      "query_duration_seconds",
		Help:      "Storage query latency by operation, connection acquisition included.",
		Buckets:   m.histogramBuckets,
	}, []string{"op"})

	m.breakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "storage",
		Name:      "breaker_state",
		Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
	}, []string{"name"})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpRequestDuration,
		m.storageQueries,
		m.storageDuration,
		m.breakerState,
	)
}

// Registry returns the registry the collectors are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one served HTTP request.
func (m *Manager) ObserveRequest(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveQuery records one storage operation.
func (m *Manager) ObserveQuery(op string, d time.Duration, err error) {
	outcome := outcomeOK
	switch {
	case err == nil:
	case errors.Is(err, songbook.ErrStorageUnavailable):
		outcome = outcomeUnavailable
	default:
		outcome = outcomeError
	}
	m.storageQueries.WithLabelValues(op, outcome).Inc()
	m.storageDuration.WithLabelValues(op).Observe(d.Seconds())
}

// SetBreakerState records the breaker state as 0 closed, 1 half-open, 2 open.
func (m *Manager) SetBreakerState(name string, state int) {
	m.breakerState.WithLabelValues(name).Set(float64(state))
}
