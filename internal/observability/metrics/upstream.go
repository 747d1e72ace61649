// Package metrics provides custom Prometheus metrics for various components of the application.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics contains all Prometheus metrics related to museum API calls.
type UpstreamMetrics struct {
	APICalls        *prometheus.CounterVec
	APIErrors       *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	registry        *prometheus.Registry
}

// NewUpstreamMetrics creates a new instance of UpstreamMetrics.
// It requires a Prometheus registry to register the metrics.
// It returns an error if metric registration fails.
func NewUpstreamMetrics(registry *prometheus.Registry) (*UpstreamMetrics, error) {
	m := &UpstreamMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize Upstream metrics: %w", err)
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register Upstream metrics: %w", err)
	}
	return m, nil
}

// initMetrics initializes all metrics for UpstreamMetrics.
func (m *UpstreamMetrics) initMetrics() error {
	m.APICalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_api_calls_total",
		Help: "Total number of museum API calls by endpoint.",
	}, []string{"endpoint"})

	m.APIErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_api_errors_total",
		Help: "Total number of museum API call errors by endpoint.",
	}, []string{"endpoint"})

	m.RequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of museum API requests in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	return nil
}

// IncrementAPICalls increases the API call counter for an endpoint by one.
func (m *UpstreamMetrics) IncrementAPICalls(endpoint string) {
	m.APICalls.WithLabelValues(endpoint).Inc()
}

// IncrementAPIErrors increases the API error counter for an endpoint by one.
func (m *UpstreamMetrics) IncrementAPIErrors(endpoint string) {
	m.APIErrors.WithLabelValues(endpoint).Inc()
}

// ObserveRequestDuration records the duration of an API request.
func (m *UpstreamMetrics) ObserveRequestDuration(seconds float64) {
	m.RequestDuration.Observe(seconds)
}

// Describe implements the prometheus.Collector interface.
func (m *UpstreamMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.APICalls.Describe(ch)
	m.APIErrors.Describe(ch)
	m.RequestDuration.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *UpstreamMetrics) Collect(ch chan<- prometheus.Metric) {
	m.APICalls.Collect(ch)
	m.APIErrors.Collect(ch)
	m.RequestDuration.Collect(ch)
}
