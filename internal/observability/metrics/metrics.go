// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "api_adapter"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Inference metrics
	MappingsInferred prometheus.Counter
	FieldsMatched    *prometheus.CounterVec

	// Transform metrics
	Transforms        *prometheus.CounterVec
	Violations        *prometheus.CounterVec
	OperationErrors   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Schema cache metrics
	SchemaCacheHits   prometheus.Counter
	SchemaCacheMisses prometheus.Counter

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
}

// NewMetrics creates all metrics and registers them with reg.
// A nil reg leaves the metrics unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MappingsInferred: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mappings_inferred_total",
			Help:      "Total number of mapping configurations inferred",
		}),
		FieldsMatched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fields_matched_total",
			Help:      "Target properties processed by inference, by match tier",
		}, []string{"tier"}),

		Transforms: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transforms_total",
			Help:      "Total number of transform and validate calls, by outcome",
		}, []string{"valid"}),
		Violations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violations_total",
			Help:      "Validation violations reported, by code",
		}, []string{"code"}),
		OperationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Operations rejected with an error, by operation and kind",
		}, []string{"operation", "kind"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of adapter operations in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"operation"}),

		SchemaCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_cache_hits_total",
			Help:      "Compiled schema cache hits",
		}),
		SchemaCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_cache_misses_total",
			Help:      "Compiled schema cache misses",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route, method and status",
		}, []string{"route", "method", "status"}),
		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "method"}),
	}
}

// RecordInference records one inferred mapping and its per-tier field counts.
func (m *Metrics) RecordInference(byTier map[string]int) {
	m.MappingsInferred.Inc()

	for tier, n := range byTier {
		m.FieldsMatched.WithLabelValues(tier).Add(float64(n))
	}
}

// RecordTransform records a transform outcome and its violation codes.
func (m *Metrics) RecordTransform(valid bool, violations map[string]int) {
	m.Transforms.WithLabelValues(strconv.FormatBool(valid)).Inc()

	for code, n := range violations {
		m.Violations.WithLabelValues(code).Add(float64(n))
	}
}

// RecordError records an operation that failed with an error of kind.
func (m *Metrics) RecordError(operation, kind string) {
	m.OperationErrors.WithLabelValues(operation, kind).Inc()
}

// ObserveOperation records how long an operation took.
func (m *Metrics) ObserveOperation(operation string, d time.Duration) {
	m.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordCache records a schema cache lookup.
func (m *Metrics) RecordCache(hit bool) {
	if hit {
		m.SchemaCacheHits.Inc()
	} else {
		m.SchemaCacheMisses.Inc()
	}
}

// RecordHTTP records one served HTTP request.
func (m *Metrics) RecordHTTP(route, method string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(route, method).Observe(d.Seconds())
}
