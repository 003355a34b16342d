package imageloader

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for loaders.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	transitions *prometheus.CounterVec
	active      prometheus.Gauge
	configErrs  prometheus.Counter
}

// NewMetrics registers the loader collectors on reg
// (prometheus.DefaultRegisterer when nil) under namespace.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "imageloader"
	}
	factory := promauto.With(reg)

	return &Metrics{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "transitions_total",
			Help:      "Total number of status changes, by entered status",
		}, []string{"status"}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "active",
			Help:      "Number of loaders created and not yet disposed",
		}),
		configErrs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "configuration_errors_total",
			Help:      "Total number of rejected loader configurations",
		}),
	}
}

func (m *Metrics) recordTransition(s Status) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(s.String()).Inc()
}

func (m *Metrics) recordMount() {
	if m == nil {
		return
	}
	m.active.Inc()
}

func (m *Metrics) recordDispose() {
	if m == nil {
		return
	}
	m.active.Dec()
}

func (m *Metrics) recordConfigError() {
	if m == nil {
		return
	}
	m.configErrs.Inc()
}
