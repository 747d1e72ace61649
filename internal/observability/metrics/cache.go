package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// CacheMetrics contains all Prometheus metrics related to the response cache.
type CacheMetrics struct {
	Hits         *prometheus.CounterVec
	Misses       *prometheus.CounterVec
	StoreErrors  prometheus.Counter
	ComputeFails prometheus.Counter
	registry     *prometheus.Registry
}

// NewCacheMetrics creates a new instance of CacheMetrics.
func NewCacheMetrics(registry *prometheus.Registry) (*CacheMetrics, error) {
	m := &CacheMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize Cache metrics: %w", err)
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register Cache metrics: %w", err)
	}
	return m, nil
}

func (m *CacheMetrics) initMetrics() error {
	m.Hits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "response_cache_hits_total",
		Help: "Total number of response cache hits by tier.",
	}, []string{"tier"})

	m.Misses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "response_cache_misses_total",
		Help: "Total number of response cache misses by tier.",
	}, []string{"tier"})

	m.StoreErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "response_cache_store_errors_total",
		Help: "Total number of cache store backend errors.",
	})

	m.ComputeFails = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "response_cache_compute_failures_total",
		Help: "Total number of failed compute callbacks on cache miss.",
	})

	return nil
}

// IncrementHits increases the cache hit counter for a tier by one.
func (m *CacheMetrics) IncrementHits(tier string) {
	m.Hits.WithLabelValues(tier).Inc()
}

// IncrementMisses increases the cache miss counter for a tier by one.
func (m *CacheMetrics) IncrementMisses(tier string) {
	m.Misses.WithLabelValues(tier).Inc()
}

// IncrementStoreErrors increases the store error counter by one.
func (m *CacheMetrics) IncrementStoreErrors() {
	m.StoreErrors.Inc()
}

// IncrementComputeFails increases the compute failure counter by one.
func (m *CacheMetrics) IncrementComputeFails() {
	m.ComputeFails.Inc()
}

// Describe implements the prometheus.Collector interface.
func (m *CacheMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.Hits.Describe(ch)
	m.Misses.Describe(ch)
	ch <- m.StoreErrors.Desc()
	ch <- m.ComputeFails.Desc()
}

// Collect implements the prometheus.Collector interface.
func (m *CacheMetrics) Collect(ch chan<- prometheus.Metric) {
	m.Hits.Collect(ch)
	m.Misses.Collect(ch)
	ch <- m.StoreErrors
	ch <- m.ComputeFails
}
