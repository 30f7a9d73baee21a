package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/nova/pkg/domain"
)

// LoggingHooks logs every lifecycle event at Info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnActivate: func(ctx context.Context, e *domain.EventBase) {
			logger.Info("activate")
		},
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.Info("step_enter", "step", e.Step, "back", e.Back, "resumed", e.Resumed)
		},
		OnAction: func(ctx context.Context, e *domain.ActionEvent) {
			logger.Info("action", "step", e.Step, "action", e.Action.String())
		},
		OnFeedback: func(ctx context.Context, e *domain.FeedbackEvent) {
			logger.Info("feedback", "rating", e.Rating)
		},
		OnClose: func(ctx context.Context, e *domain.EventBase) {
			logger.Info("close")
		},
	}
}

// Combine returns hooks that call each set in order. Nil hooks are skipped.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnActivate = chain(out.OnActivate, h.OnActivate)
		out.OnStepEnter = chain(out.OnStepEnter, h.OnStepEnter)
		out.OnAction = chain(out.OnAction, h.OnAction)
		out.OnFeedback = chain(out.OnFeedback, h.OnFeedback)
		out.OnClose = chain(out.OnClose, h.OnClose)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
