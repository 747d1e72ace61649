// Package observability provides metrics and monitoring capabilities for the application.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/metscout/metscout/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry
	Upstream *metrics.UpstreamMetrics
	Cache    *metrics.CacheMetrics
	Timeline *metrics.TimelineMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors.
// It returns an error if any metric collector fails to initialize.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	upstreamMetrics, err := metrics.NewUpstreamMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Upstream metrics: %w", err)
	}

	cacheMetrics, err := metrics.NewCacheMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cache metrics: %w", err)
	}

	timelineMetrics, err := metrics.NewTimelineMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Timeline metrics: %w", err)
	}

	return &Metrics{
		registry: registry,
		Upstream: upstreamMetrics,
		Cache:    cacheMetrics,
		Timeline: timelineMetrics,
	}, nil
}

// Handler returns an HTTP handler serving the metrics registry in
// Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
