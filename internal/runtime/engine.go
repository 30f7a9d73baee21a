package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/nova/internal/logging"
	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/ports"
)

const (
	// DefaultAssetName is the resume served by the download action.
	DefaultAssetName = "Santhosh_M_Resume.pdf"

	// CueChirp is the tone played when the avatar is activated.
	CueChirp = "chirp"

	// DownloadAnnouncement is spoken after the download is triggered.
	DownloadAnnouncement = "Downloading the CV for you now."
)

// StepSource resolves step content by name.
type StepSource interface {
	Get(name domain.StepName) (domain.Step, error)
}

// Engine is the Nova dialog state machine.
//
// It owns the session State and resolves navigation requests into state changes
// and presenter/voice calls. An Engine is not safe for concurrent use: every
// call, including the scheduler's deferred callbacks, must run on one event loop.
type Engine struct {
	steps StepSource
	state *domain.State

	presenter  ports.Presenter
	voice      ports.VoiceAnnouncer
	navigator  ports.Navigator
	downloader ports.AssetDownloader
	sound      ports.SoundCue
	avatar     ports.Avatar
	scheduler  ports.Scheduler

	timing    Timing
	assetName string
	hooks     domain.LifecycleHooks
	logger    *slog.Logger

	// generation increases on every visible change of the dialog. Deferred
	// callbacks capture it and do nothing once a newer change happened.
	generation uint64
}

// NewEngine creates an engine over the given step content.
func NewEngine(steps StepSource, opts ...EngineOption) *Engine {
	e := &Engine{
		steps:      steps,
		state:      domain.NewState(),
		presenter:  nopPresenter{},
		voice:      nopVoice{},
		navigator:  nopEffects{},
		downloader: nopEffects{},
		sound:      nopEffects{},
		avatar:     nopEffects{},
		scheduler:  inlineScheduler{},
		timing:     DefaultTiming(),
		assetName:  DefaultAssetName,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a copy of the current session state.
func (e *Engine) State() domain.State {
	return *e.state.Snapshot()
}

// Generation returns the current render generation.
func (e *Engine) Generation() uint64 {
	return e.generation
}

// Start schedules the automatic greeting: if the visitor has not engaged once
// GreetDelay has passed, the engine opens on the intro step.
func (e *Engine) Start(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	e.scheduler.AfterFunc(e.timing.GreetDelay, func() {
		if e.state.HasEngaged {
			return
		}
		if err := e.GoToStep(ctx, domain.StepIntro); err != nil {
			e.logger.Error("auto greeting failed", "err", err)
		}
	})
}

// Activate handles a click on the avatar. It marks the visitor as engaged,
// plays the chirp cue, pulses the avatar and, when the dialog is closed,
// either resumes the current step or starts at intro.
func (e *Engine) Activate(ctx context.Context) error {
	e.state.HasEngaged = true

	if err := e.sound.Play(ctx, CueChirp); err != nil {
		e.logger.Warn("sound cue failed", "cue", CueChirp, "err", err)
	}
	e.avatar.Pulse(ctx)
	if e.hooks.OnActivate != nil {
		e.hooks.OnActivate(ctx, &domain.EventBase{Timestamp: time.Now(), Type: domain.EventActivate})
	}

	if e.state.Open {
		return nil
	}
	if e.state.CurrentStep != "" {
		return e.render(ctx, e.state.CurrentStep, renderResume)
	}
	return e.GoToStep(ctx, domain.StepIntro)
}

// GoToStep transitions to name. The current step is pushed onto the history
// unless it is name itself.
func (e *Engine) GoToStep(ctx context.Context, name domain.StepName) error {
	if _, err := e.steps.Get(name); err != nil {
		e.logger.Error("transition to unknown step", "step", name, "err", err)
		return err
	}

	if e.state.CurrentStep != "" && e.state.CurrentStep != name {
		e.state.Push(e.state.CurrentStep)
	}
	e.logger.Debug("step transition", "from", e.state.CurrentStep, "to", name, "depth", len(e.state.History))
	e.state.CurrentStep = name
	return e.render(ctx, name, renderForward)
}

// GoBack pops the history and renders the popped step. It is a no-op on an
// empty history. There is no forward stack.
func (e *Engine) GoBack(ctx context.Context) error {
	prev, ok := e.state.Pop()
	if !ok {
		e.logger.Debug("go back ignored, history is empty", "step", e.state.CurrentStep)
		return nil
	}
	e.logger.Debug("step back", "from", e.state.CurrentStep, "to", prev, "depth", len(e.state.History))
	e.state.CurrentStep = prev
	return e.render(ctx, prev, renderBack)
}

// Render displays and speaks a step without touching the history.
func (e *Engine) Render(ctx context.Context, name domain.StepName) error {
	return e.render(ctx, name, renderForward)
}

// HandleFeedback acknowledges rating and closes the dialog after
// FeedbackCloseDelay. The current step stays feedback, so the next Activate
// resumes there.
func (e *Engine) HandleFeedback(ctx context.Context, rating domain.Rating) error {
	if !rating.Valid() {
		return fmt.Errorf("invalid rating %q", rating)
	}
	if e.hooks.OnFeedback != nil {
		e.hooks.OnFeedback(ctx, &domain.FeedbackEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventFeedback},
			Rating:    rating,
		})
	}

	gen := e.announce(ctx, rating.Acknowledgement())
	ctx = context.WithoutCancel(ctx)
	e.scheduler.AfterFunc(e.timing.FeedbackCloseDelay, func() {
		if gen != e.generation {
			return
		}
		e.Hide(ctx)
	})
	return nil
}

// Hide closes the dialog and cancels speech. CurrentStep and History are kept
// so a later Activate resumes where the visitor left off.
func (e *Engine) Hide(ctx context.Context) {
	e.generation++
	e.state.Open = false
	e.presenter.Close(ctx)
	e.voice.Cancel()
	if e.hooks.OnClose != nil {
		e.hooks.OnClose(ctx, &domain.EventBase{Timestamp: time.Now(), Type: domain.EventClose})
	}
}

// Select dispatches the action of the option at index on the current step.
func (e *Engine) Select(ctx context.Context, index int) error {
	if !e.state.Open {
		return domain.ErrDialogClosed
	}
	if e.state.CurrentStep == "" {
		return domain.ErrNoSuchOption
	}
	step, err := e.steps.Get(e.state.CurrentStep)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(step.Options) {
		return fmt.Errorf("%w: %d on step %s", domain.ErrNoSuchOption, index, step.Name)
	}
	return e.Dispatch(ctx, step.Options[index].Action)
}
