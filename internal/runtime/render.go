package runtime

import (
	"context"
	"time"

	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/ports"
)

type renderMode int

const (
	renderForward renderMode = iota
	renderBack
	renderResume
)

// render shows the step's text, speaks it and, after OptionsDelay, shows its
// options. It never mutates the history.
func (e *Engine) render(ctx context.Context, name domain.StepName, mode renderMode) error {
	step, err := e.steps.Get(name)
	if err != nil {
		e.logger.Error("render of unknown step", "step", name, "err", err)
		return err
	}

	gen := e.display(ctx, step.Text)
	e.emitStepEnter(ctx, name, mode)

	views := e.optionViews(ctx, step, gen)
	ctx = context.WithoutCancel(ctx)
	e.scheduler.AfterFunc(e.timing.OptionsDelay, func() {
		if gen != e.generation {
			return
		}
		e.presenter.ShowOptions(ctx, views)
	})
	return nil
}

// announce shows and speaks a message that carries no options, such as a
// navigation confirmation or the feedback acknowledgement.
func (e *Engine) announce(ctx context.Context, text string) uint64 {
	e.logger.Debug("announce", "text", text)
	return e.display(ctx, text)
}

// display starts a new generation, opens the dialog with text and speaks it.
func (e *Engine) display(ctx context.Context, text string) uint64 {
	e.generation++
	gen := e.generation
	e.state.Open = true

	e.presenter.ShowText(ctx, text)
	if r, ok := e.presenter.(ports.Revealer); ok {
		e.reveal(context.WithoutCancel(ctx), r, gen, []rune(text), 1)
	}
	e.voice.Speak(ctx, text)
	return gen
}

// reveal shows the first n runes, then schedules the next rune.
func (e *Engine) reveal(ctx context.Context, r ports.Revealer, gen uint64, text []rune, n int) {
	if len(text) == 0 {
		return
	}
	if e.timing.RevealInterval <= 0 || n >= len(text) {
		r.Reveal(ctx, string(text))
		return
	}
	r.Reveal(ctx, string(text[:n]))
	e.scheduler.AfterFunc(e.timing.RevealInterval, func() {
		if gen != e.generation {
			return
		}
		e.reveal(ctx, r, gen, text, n+1)
	})
}

func (e *Engine) optionViews(ctx context.Context, step domain.Step, gen uint64) []ports.OptionView {
	ctx = context.WithoutCancel(ctx)
	views := make([]ports.OptionView, 0, len(step.Options))
	for _, opt := range step.Options {
		action := opt.Action
		views = append(views, ports.OptionView{
			Label: opt.Label,
			Icon:  opt.Icon,
			Select: func() {
				if gen != e.generation {
					e.logger.Debug("stale option ignored", "label", opt.Label, "step", step.Name)
					return
				}
				if err := e.Dispatch(ctx, action); err != nil {
					e.logger.Error("option failed", "label", opt.Label, "step", step.Name, "err", err)
				}
			},
		})
	}
	return views
}

func (e *Engine) emitStepEnter(ctx context.Context, name domain.StepName, mode renderMode) {
	if e.hooks.OnStepEnter == nil {
		return
	}
	e.hooks.OnStepEnter(ctx, &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStepEnter},
		Step:      name,
		Back:      mode == renderBack,
		Resumed:   mode == renderResume,
	})
}
