package components

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "components"

// metrics holds the Engine's Prometheus collectors. A nil *metrics records
// nothing, which is what an Engine without WithMetrics uses.
type metrics struct {
	renders         *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec
	unexpectedSlots *prometheus.CounterVec
	placeholders    prometheus.Counter
	resourceCycles  prometheus.Counter
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	factory := promauto.With(registerer)
	return &metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "renders_total",
			Help:      "Components rendered, by component name and result.",
		}, []string{"component", "result"}),
		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering a component, including the components it renders.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"component"}),
		unexpectedSlots: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "unexpected_slots_total",
			Help:      "Slots filled at a call site that the component's template doesn't declare.",
		}, []string{"component"}),
		placeholders: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "placeholders_replaced_total",
			Help:      "Dependency placeholders replaced or removed from rendered output.",
		}),
		resourceCycles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resource_cycles_total",
			Help:      "Dependency passes whose components disagreed about resource order.",
		}),
	}
}

// WithMetrics registers the Engine's Prometheus collectors with registerer
// and starts recording to them. Collector names are prefixed with
// "components_", so registering two Engines with the same registerer fails.
func WithMetrics(registerer prometheus.Registerer) Option {
	return func(e *Engine) (err error) {
		defer func() {
			// promauto panics on registration errors
			if r := recover(); r != nil {
				if regErr, ok := r.(error); ok {
					err = regErr
					return
				}
				err = errors.New("error registering component metrics")
			}
		}()
		e.metrics = newMetrics(registerer)
		return nil
	}
}

func (m *metrics) observeRender(component string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.renders.WithLabelValues(component, result).Inc()
	m.renderDuration.WithLabelValues(component).Observe(time.Since(start).Seconds())
}

func (m *metrics) observeUnexpectedSlots(component string, count int) {
	if m == nil {
		return
	}
	m.unexpectedSlots.WithLabelValues(component).Add(float64(count))
}

func (m *metrics) observePlaceholders(count int) {
	if m == nil {
		return
	}
	m.placeholders.Add(float64(count))
}

func (m *metrics) observeResourceCycle() {
	if m == nil {
		return
	}
	m.resourceCycles.Inc()
}
