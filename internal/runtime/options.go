package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/ports"
)

// Timing holds the delays of every deferred effect.
type Timing struct {
	// RevealInterval is the delay between two revealed runes.
	RevealInterval time.Duration
	// OptionsDelay lets the text settle before the buttons appear.
	OptionsDelay time.Duration
	// FeedbackCloseDelay is how long the acknowledgement stays before auto close.
	FeedbackCloseDelay time.Duration
	// GreetDelay is how long Start waits before greeting a visitor who never engaged.
	GreetDelay time.Duration
}

// DefaultTiming returns the widget's stock delays.
func DefaultTiming() Timing {
	return Timing{
		RevealInterval:     25 * time.Millisecond,
		OptionsDelay:       500 * time.Millisecond,
		FeedbackCloseDelay: 3000 * time.Millisecond,
		GreetDelay:         3000 * time.Millisecond,
	}
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithPresenter sets the dialog widget.
func WithPresenter(p ports.Presenter) EngineOption {
	return func(e *Engine) {
		e.presenter = p
	}
}

// WithVoice sets the speech collaborator.
func WithVoice(v ports.VoiceAnnouncer) EngineOption {
	return func(e *Engine) {
		e.voice = v
	}
}

// WithNavigator sets the page scroller.
func WithNavigator(n ports.Navigator) EngineOption {
	return func(e *Engine) {
		e.navigator = n
	}
}

// WithDownloader sets the asset downloader.
func WithDownloader(d ports.AssetDownloader) EngineOption {
	return func(e *Engine) {
		e.downloader = d
	}
}

// WithSoundCue sets the tone player used on activation.
func WithSoundCue(s ports.SoundCue) EngineOption {
	return func(e *Engine) {
		e.sound = s
	}
}

// WithAvatar sets the avatar that pulses on activation.
func WithAvatar(a ports.Avatar) EngineOption {
	return func(e *Engine) {
		e.avatar = a
	}
}

// WithScheduler sets where deferred callbacks run.
// Without one, deferred effects run inline and delays are ignored.
func WithScheduler(s ports.Scheduler) EngineOption {
	return func(e *Engine) {
		e.scheduler = s
	}
}

// WithTiming overrides the default delays.
func WithTiming(t Timing) EngineOption {
	return func(e *Engine) {
		e.timing = t
	}
}

// WithAssetName overrides the downloaded resume filename.
func WithAssetName(name string) EngineOption {
	return func(e *Engine) {
		if name != "" {
			e.assetName = name
		}
	}
}

// WithState resumes from a previously saved state.
func WithState(s *domain.State) EngineOption {
	return func(e *Engine) {
		if s != nil {
			e.state = s.Snapshot()
		}
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}
