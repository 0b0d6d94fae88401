package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "canvas"

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	Dispatches        *prometheus.CounterVec
	Applied           *prometheus.CounterVec
	Rejected          *prometheus.CounterVec
	GesturesCancelled *prometheus.CounterVec
	CascadeDepth      prometheus.Histogram
	HTTPRequests      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "dispatches_total",
				Help:      "Root actions dispatched, by action type",
			},
			[]string{"action"},
		),
		Applied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "actions_applied_total",
				Help:      "Actions accepted by the reducer, follow-ups included",
			},
			[]string{"action"},
		),
		Rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "actions_rejected_total",
				Help:      "Actions refused by the reducer",
			},
			[]string{"action", "root"},
		),
		GesturesCancelled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "gestures_cancelled_total",
				Help:      "Connect gestures aborted without creating a relationship",
			},
			[]string{"reason"},
		),
		CascadeDepth: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "cascade_depth",
				Help:      "Follow-up depth of applied actions",
				Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Dispatches, m.Applied, m.Rejected, m.GesturesCancelled, m.CascadeDepth, m.HTTPRequests)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(_ context.Context, e *domain.ActionEvent) {
			m.Dispatches.WithLabelValues(string(e.Action.Type)).Inc()
		},
		OnApply: func(_ context.Context, e *domain.ActionEvent) {
			m.Applied.WithLabelValues(string(e.Action.Type)).Inc()
			m.CascadeDepth.Observe(float64(e.Depth))
		},
		OnReject: func(_ context.Context, e *domain.RejectEvent) {
			m.Rejected.WithLabelValues(string(e.Action.Type), strconv.FormatBool(e.Depth == 0)).Inc()
		},
		OnGestureCancelled: func(_ context.Context, e *domain.GestureEvent) {
			m.GesturesCancelled.WithLabelValues(e.Reason).Inc()
		},
	}
}

// ObserveHTTP counts a served request.
func (m *Metrics) ObserveHTTP(method, route string, status int) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
