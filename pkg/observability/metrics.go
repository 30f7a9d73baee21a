package observability

import (
	"context"

	"github.com/aretw0/nova/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of one Nova process.
type Metrics struct {
	StepRenders     *prometheus.CounterVec
	Actions         *prometheus.CounterVec
	Feedback        *prometheus.CounterVec
	Activations     prometheus.Counter
	Closes          prometheus.Counter
	LiveSessions    prometheus.Gauge
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StepRenders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nova_step_renders_total",
				Help: "Steps rendered, by step and how the step was reached",
			},
			[]string{"step", "mode"},
		),
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nova_actions_total",
				Help: "Option actions dispatched",
			},
			[]string{"kind"},
		),
		Feedback: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nova_feedback_total",
				Help: "Ratings submitted",
			},
			[]string{"rating"},
		),
		Activations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nova_activations_total",
			Help: "Avatar activations",
		}),
		Closes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nova_dialog_closes_total",
			Help: "Dialog closes",
		}),
		LiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nova_live_sessions_active",
			Help: "Open websocket sessions",
		}),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nova_http_requests_total",
				Help: "HTTP requests, by method, route and status class",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nova_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.StepRenders,
			m.Actions,
			m.Feedback,
			m.Activations,
			m.Closes,
			m.LiveSessions,
			m.RequestsTotal,
			m.RequestDuration,
		)
	}
	return m
}

// Hooks returns lifecycle hooks that feed the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnActivate: func(ctx context.Context, e *domain.EventBase) {
			m.Activations.Inc()
		},
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			m.StepRenders.WithLabelValues(string(e.Step), stepMode(e)).Inc()
		},
		OnAction: func(ctx context.Context, e *domain.ActionEvent) {
			m.Actions.WithLabelValues(string(e.Action.Kind)).Inc()
		},
		OnFeedback: func(ctx context.Context, e *domain.FeedbackEvent) {
			m.Feedback.WithLabelValues(string(e.Rating)).Inc()
		},
		OnClose: func(ctx context.Context, e *domain.EventBase) {
			m.Closes.Inc()
		},
	}
}

func stepMode(e *domain.StepEvent) string {
	switch {
	case e.Back:
		return "back"
	case e.Resumed:
		return "resume"
	}
	return "forward"
}
