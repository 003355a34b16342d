package fetch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes used as the "outcome" label.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeCanceled = "canceled"
)

// MetricsConfig configures the fetch metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "imageloader").
	Namespace string

	// Subsystem is the metrics subsystem (default: "fetch").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for fetch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the fetch metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics holds the Prometheus collectors for image fetches.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	started   prometheus.Counter
	completed *prometheus.CounterVec
	released  prometheus.Counter
	duration  *prometheus.HistogramVec
	bytes     prometheus.Histogram
}

// NewMetrics registers the fetch collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := MetricsConfig{
		Namespace: "imageloader",
		Subsystem: "fetch",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		started: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "started_total",
			Help:        "Total number of image fetches started",
			ConstLabels: config.ConstLabels,
		}),
		completed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "completed_total",
			Help:        "Total number of image fetches completed, by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),
		released: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "released_total",
			Help:        "Total number of fetch handles released",
			ConstLabels: config.ConstLabels,
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "duration_seconds",
			Help:        "Image fetch duration in seconds, by outcome",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"outcome"}),
		bytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "payload_bytes",
			Help:        "Size of successfully loaded images in bytes",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1<<10, 4, 8),
		}),
	}
}

func (m *Metrics) recordStart() {
	if m == nil {
		return
	}
	m.started.Inc()
}

func (m *Metrics) recordDone(outcome string, elapsed time.Duration, size int64) {
	if m == nil {
		return
	}
	m.completed.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if outcome == OutcomeSuccess {
		m.bytes.Observe(float64(size))
	}
}

func (m *Metrics) recordRelease() {
	if m == nil {
		return
	}
	m.released.Inc()
}
