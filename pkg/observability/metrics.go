package observability

import (
	"context"
	"net/http"
	"strconv"

	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	registry prometheus.Gatherer

	Actions        *prometheus.CounterVec
	Undos          prometheus.Counter
	Redos          prometheus.Counter
	DispatchErrors *prometheus.CounterVec
	HistoryDepth   prometheus.Gauge
	Duration       *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses a private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gift_actions_total",
			Help: "Total number of dispatched actions",
		}, []string{"type", "recorded"}),
		Undos: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gift_undo_total",
			Help: "Total number of undo requests",
		}),
		Redos: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gift_redo_total",
			Help: "Total number of redo requests",
		}),
		DispatchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gift_dispatch_errors_total",
			Help: "Total number of rejected actions",
		}, []string{"type"}),
		HistoryDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gift_history_depth",
			Help: "Retained history entries after the last action",
		}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gift_dispatch_duration_seconds",
			Help:    "Duration of dispatch calls",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"type"}),
	}
	reg.MustRegister(m.Actions, m.Undos, m.Redos, m.DispatchErrors, m.HistoryDepth, m.Duration)
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(_ context.Context, e *domain.DispatchEvent) {
			switch e.Type {
			case domain.EventUndo:
				m.Undos.Inc()
			case domain.EventRedo:
				m.Redos.Inc()
			default:
				m.Actions.WithLabelValues(e.Action, strconv.FormatBool(e.Recorded)).Inc()
			}
			m.HistoryDepth.Set(float64(e.Depth))
			m.Duration.WithLabelValues(e.Action).Observe(e.Duration.Seconds())
		},
		OnError: func(_ context.Context, e *domain.DispatchEvent) {
			m.DispatchErrors.WithLabelValues(e.Action).Inc()
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
