package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/nova/internal/logging"
	"github.com/aretw0/nova/internal/runtime"
	"github.com/aretw0/nova/pkg/adapters/record"
	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/scheduler"
	"github.com/rs/xid"
)

// Op is one engine operation replayed by the Service.
type Op func(ctx context.Context, eng *runtime.Engine) error

// OptionItem is a selectable option as exposed to remote clients.
type OptionItem struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

// View is the outcome of one operation: what the visitor sees and hears,
// the persisted state and the collaborator calls made along the way.
type View struct {
	SessionID  string            `json:"session_id"`
	Step       domain.StepName   `json:"step,omitempty"`
	History    []domain.StepName `json:"history"`
	HasEngaged bool              `json:"has_engaged"`
	Open       bool              `json:"open"`
	Text       string            `json:"text,omitempty"`
	Spoken     string            `json:"spoken,omitempty"`
	Options    []OptionItem      `json:"options"`
	Events     []record.Event    `json:"events"`
}

// Config holds what every replayed engine shares.
type Config struct {
	Timing    runtime.Timing
	AssetName string
	// Anchors the page is known to have. Empty accepts every anchor.
	Anchors []string
	Hooks   domain.LifecycleHooks
	Logger  *slog.Logger
}

// Service runs dialog operations against persisted sessions.
type Service struct {
	manager *Manager
	steps   runtime.StepSource
	cfg     Config
}

// NewService creates a Service. A zero Timing means the stock delays.
func NewService(manager *Manager, steps runtime.StepSource, cfg Config) *Service {
	if cfg.Timing == (runtime.Timing{}) {
		cfg.Timing = runtime.DefaultTiming()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	return &Service{manager: manager, steps: steps, cfg: cfg}
}

// Manager returns the session manager.
func (s *Service) Manager() *Manager {
	return s.manager
}

// Steps returns the step content the engines run on.
func (s *Service) Steps() runtime.StepSource {
	return s.steps
}

// Config returns the engine settings shared by every session.
func (s *Service) Config() Config {
	return s.cfg
}

// Create starts a new session with a fresh id.
func (s *Service) Create(ctx context.Context) (*View, error) {
	id := xid.New().String()
	state, err := s.manager.LoadOrStart(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cfg.Logger.Debug("session created", "session_id", id)
	return s.newView(id, *state, record.New()), nil
}

// Delete removes a session.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.manager.Load(ctx, id); err != nil {
		return err
	}
	return s.manager.Delete(ctx, id)
}

// Run loads the session, applies op on an engine wired to a recorder and a
// virtual clock, runs every deferred effect and saves the resulting state.
// The state is left untouched when op fails.
func (s *Service) Run(ctx context.Context, id string, op Op) (*View, error) {
	var view *View
	err := s.manager.WithLock(ctx, id, func(ctx context.Context) error {
		store := s.manager.Store()
		state, err := store.Load(ctx, id)
		if err != nil {
			return err
		}

		rec := s.newRecorder()
		clock := scheduler.NewManual()
		eng := runtime.NewEngine(s.steps,
			runtime.WithPresenter(rec),
			runtime.WithVoice(rec),
			runtime.WithNavigator(rec),
			runtime.WithDownloader(rec),
			runtime.WithSoundCue(rec),
			runtime.WithAvatar(rec),
			runtime.WithScheduler(clock),
			runtime.WithTiming(s.cfg.Timing),
			runtime.WithAssetName(s.cfg.AssetName),
			runtime.WithState(state),
			runtime.WithLogger(s.cfg.Logger.With("session_id", id)),
			runtime.WithLifecycleHooks(s.cfg.Hooks),
		)

		if err := op(ctx, eng); err != nil {
			return err
		}
		if n := clock.Flush(); n >= scheduler.FlushLimit {
			s.cfg.Logger.Warn("deferred effects did not settle", "session_id", id)
		}

		next := eng.State()
		if err := store.Save(ctx, id, &next); err != nil {
			return fmt.Errorf("failed to save session %s: %w", id, err)
		}
		view = s.newView(id, next, rec)
		return nil
	})
	return view, err
}

// Activate clicks the avatar.
func (s *Service) Activate(ctx context.Context, id string) (*View, error) {
	return s.Run(ctx, id, func(ctx context.Context, eng *runtime.Engine) error {
		return eng.Activate(ctx)
	})
}

// Select picks the option at index on the current step.
func (s *Service) Select(ctx context.Context, id string, index int) (*View, error) {
	return s.Run(ctx, id, func(ctx context.Context, eng *runtime.Engine) error {
		return eng.Select(ctx, index)
	})
}

// Back pops the history.
func (s *Service) Back(ctx context.Context, id string) (*View, error) {
	return s.Run(ctx, id, func(ctx context.Context, eng *runtime.Engine) error {
		return eng.GoBack(ctx)
	})
}

// Hide closes the dialog.
func (s *Service) Hide(ctx context.Context, id string) (*View, error) {
	return s.Run(ctx, id, func(ctx context.Context, eng *runtime.Engine) error {
		eng.Hide(ctx)
		return nil
	})
}

// GoTo transitions to step.
func (s *Service) GoTo(ctx context.Context, id string, step domain.StepName) (*View, error) {
	return s.Run(ctx, id, func(ctx context.Context, eng *runtime.Engine) error {
		return eng.GoToStep(ctx, step)
	})
}

// Current returns what the session shows without running the engine, so
// nothing is spoken and no hooks fire.
func (s *Service) Current(ctx context.Context, id string) (*View, error) {
	var view *View
	err := s.manager.WithLock(ctx, id, func(ctx context.Context) error {
		state, err := s.manager.Store().Load(ctx, id)
		if err != nil {
			return err
		}
		view = s.newView(id, *state, record.New())
		return nil
	})
	return view, err
}

func (s *Service) newRecorder() *record.Recorder {
	if len(s.cfg.Anchors) == 0 {
		return record.New()
	}
	return record.New(record.WithAnchors(s.cfg.Anchors...))
}

// newView drops reveal frames: a replayed operation has no typing effect.
// When the operation displayed nothing, an open dialog still shows its
// current step, read from the content.
func (s *Service) newView(id string, state domain.State, rec *record.Recorder) *View {
	current := rec.View()
	events := rec.Events()
	v := &View{
		SessionID:  id,
		Step:       state.CurrentStep,
		History:    state.History,
		HasEngaged: state.HasEngaged,
		Open:       state.Open,
		Text:       current.Text,
		Spoken:     current.Spoken,
		Options:    []OptionItem{},
		Events:     []record.Event{},
	}
	if v.History == nil {
		v.History = []domain.StepName{}
	}
	for _, ev := range events {
		if ev.Kind == record.EventReveal {
			continue
		}
		v.Events = append(v.Events, ev)
	}
	if !state.Open {
		return v
	}

	if len(record.Filter(events, record.EventText)) == 0 {
		step, err := s.steps.Get(state.CurrentStep)
		if err != nil {
			s.cfg.Logger.Warn("open session on unknown step", "session_id", id, "step", state.CurrentStep, "err", err)
			return v
		}
		v.Text = step.Text
		for i, o := range step.Options {
			v.Options = append(v.Options, OptionItem{Index: i, Label: o.Label, Icon: o.Icon})
		}
		return v
	}
	for i, o := range current.Options {
		v.Options = append(v.Options, OptionItem{Index: i, Label: o.Label, Icon: o.Icon})
	}
	return v
}
