// Package monitoring collects Prometheus metrics for model calls and
// local storage.
package monitoring

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/chefai/chefai/pkg/errors"
)

const namespace = "chefai"

// Status label values.
const (
	StatusSuccess         = "success"
	StatusError           = "error"
	StatusInvalidResponse = "invalid_response"
)

// MetricsCollector handles Prometheus metrics collection. A nil collector
// records nothing.
type MetricsCollector struct {
	registry *prometheus.Registry
	provider string

	aiRequestsTotal   *prometheus.CounterVec
	aiRequestDuration *prometheus.HistogramVec
	storeOperations   *prometheus.CounterVec
}

// NewMetricsCollector registers the collectors on a fresh registry.
// provider labels every model request.
func NewMetricsCollector(provider string) *MetricsCollector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &MetricsCollector{
		registry: registry,
		provider: provider,

		aiRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ai_requests_total",
				Help:      "Total number of AI requests",
			},
			[]string{"provider", "operation", "status"},
		),
		aiRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ai_request_duration_seconds",
				Help:      "AI request duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"provider", "operation"},
		),
		storeOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Total number of local store operations",
			},
			[]string{"operation", "status"},
		),
	}
}

// Registry exposes the underlying registry.
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// RecordAIRequest records one model round trip including reply parsing.
func (m *MetricsCollector) RecordAIRequest(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.aiRequestsTotal.WithLabelValues(m.provider, operation, statusOf(err)).Inc()
	m.aiRequestDuration.WithLabelValues(m.provider, operation).Observe(duration.Seconds())
}

// RecordStoreOperation records a session, collection or rating operation.
func (m *MetricsCollector) RecordStoreOperation(operation string, ok bool) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if !ok {
		status = StatusError
	}
	m.storeOperations.WithLabelValues(operation, status).Inc()
}

// WriteText dumps all metrics in the Prometheus text exposition format.
func (m *MetricsCollector) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, errors.CodeInvalidAIResponse):
		return StatusInvalidResponse
	default:
		return StatusError
	}
}
