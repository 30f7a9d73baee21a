package nova

import (
	"github.com/aretw0/nova/internal/runtime"
	"github.com/aretw0/nova/pkg/registry"
)

// Engine is the dialog state machine.
type Engine = runtime.Engine

// Timing holds the delays of the deferred effects.
type Timing = runtime.Timing

// Option configures an Engine.
type Option = runtime.EngineOption

// StepSource resolves step content by name.
type StepSource = runtime.StepSource

// Engine options.
var (
	WithPresenter      = runtime.WithPresenter
	WithVoice          = runtime.WithVoice
	WithNavigator      = runtime.WithNavigator
	WithDownloader     = runtime.WithDownloader
	WithSoundCue       = runtime.WithSoundCue
	WithAvatar         = runtime.WithAvatar
	WithScheduler      = runtime.WithScheduler
	WithTiming         = runtime.WithTiming
	WithAssetName      = runtime.WithAssetName
	WithState          = runtime.WithState
	WithLogger         = runtime.WithLogger
	WithLifecycleHooks = runtime.WithLifecycleHooks
)

// DefaultTiming returns the stock delays.
func DefaultTiming() Timing {
	return runtime.DefaultTiming()
}

// New creates an engine over the built-in step content.
func New(opts ...Option) *Engine {
	return runtime.NewEngine(registry.Default(), opts...)
}

// NewWithSteps creates an engine over custom step content.
func NewWithSteps(steps StepSource, opts ...Option) *Engine {
	return runtime.NewEngine(steps, opts...)
}

// Load creates an engine over the steps file at path.
// The file must define the complete step set.
func Load(path string, opts ...Option) (*Engine, error) {
	steps, err := registry.Load(path)
	if err != nil {
		return nil, err
	}
	return runtime.NewEngine(steps, opts...), nil
}
