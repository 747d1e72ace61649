package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// TimelineMetrics contains all Prometheus metrics related to timeline assembly
// and progressive batch fetching.
type TimelineMetrics struct {
	RecordsAccepted  prometheus.Counter
	RecordsDiscarded *prometheus.CounterVec
	BlacklistSkips   prometheus.Counter
	BatchesFetched   prometheus.Counter
	AssemblyDuration prometheus.Histogram
	registry         *prometheus.Registry
}

// NewTimelineMetrics creates a new instance of TimelineMetrics.
func NewTimelineMetrics(registry *prometheus.Registry) (*TimelineMetrics, error) {
	m := &TimelineMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize Timeline metrics: %w", err)
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register Timeline metrics: %w", err)
	}
	return m, nil
}

func (m *TimelineMetrics) initMetrics() error {
	m.RecordsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timeline_records_accepted_total",
		Help: "Total number of artwork records accepted during batch fetching.",
	})

	m.RecordsDiscarded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timeline_records_discarded_total",
		Help: "Total number of artwork records discarded by reason.",
	}, []string{"reason"})

	m.BlacklistSkips = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timeline_blacklist_skips_total",
		Help: "Total number of candidate ids skipped because of the blacklist.",
	})

	m.BatchesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timeline_batches_fetched_total",
		Help: "Total number of candidate batches fetched.",
	})

	m.AssemblyDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timeline_assembly_duration_seconds",
		Help:    "Duration of curated timeline assembly in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	return nil
}

// IncrementRecordsAccepted increases the accepted record counter by one.
func (m *TimelineMetrics) IncrementRecordsAccepted() {
	m.RecordsAccepted.Inc()
}

// IncrementRecordsDiscarded increases the discarded record counter for a reason by one.
func (m *TimelineMetrics) IncrementRecordsDiscarded(reason string) {
	m.RecordsDiscarded.WithLabelValues(reason).Inc()
}

// IncrementBlacklistSkips increases the blacklist skip counter by one.
func (m *TimelineMetrics) IncrementBlacklistSkips() {
	m.BlacklistSkips.Inc()
}

// IncrementBatchesFetched increases the fetched batch counter by one.
func (m *TimelineMetrics) IncrementBatchesFetched() {
	m.BatchesFetched.Inc()
}

// ObserveAssemblyDuration records the duration of a timeline assembly.
func (m *TimelineMetrics) ObserveAssemblyDuration(seconds float64) {
	m.AssemblyDuration.Observe(seconds)
}

// Describe implements the prometheus.Collector interface.
func (m *TimelineMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.RecordsAccepted.Desc()
	m.RecordsDiscarded.Describe(ch)
	ch <- m.BlacklistSkips.Desc()
	ch <- m.BatchesFetched.Desc()
	m.AssemblyDuration.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *TimelineMetrics) Collect(ch chan<- prometheus.Metric) {
	ch <- m.RecordsAccepted
	m.RecordsDiscarded.Collect(ch)
	ch <- m.BlacklistSkips
	ch <- m.BatchesFetched
	m.AssemblyDuration.Collect(ch)
}
