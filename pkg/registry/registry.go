package registry

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/aretw0/nova/pkg/domain"
)

//go:embed steps.yaml
var defaultSteps []byte

// MaxOptions is the most buttons a step may offer.
const MaxOptions = 4

// Registry maps step names to their content. It is immutable once built.
type Registry struct {
	order []domain.StepName
	steps map[domain.StepName]domain.Step
}

// Default returns the registry built from the embedded content.
// It panics if the embedded document is invalid, which only a broken build can cause.
func Default() *Registry {
	reg, err := Parse(defaultSteps)
	if err != nil {
		panic(fmt.Sprintf("registry: embedded steps are invalid: %v", err))
	}
	return reg
}

// DefaultContent returns the embedded YAML document.
func DefaultContent() []byte {
	out := make([]byte, len(defaultSteps))
	copy(out, defaultSteps)
	return out
}

// Load reads and validates a steps document from disk.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read steps file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a steps document.
func Parse(data []byte) (*Registry, error) {
	steps, err := parse(data)
	if err != nil {
		return nil, err
	}
	return New(steps...)
}

// New builds a validated registry from steps.
func New(steps ...domain.Step) (*Registry, error) {
	reg := &Registry{
		steps: make(map[domain.StepName]domain.Step, len(steps)),
	}
	var errs []error
	for _, s := range steps {
		if _, dup := reg.steps[s.Name]; dup {
			errs = append(errs, &ValidationError{Step: string(s.Name), Option: -1, Reason: "defined more than once"})
			continue
		}
		reg.order = append(reg.order, s.Name)
		reg.steps[s.Name] = cloneStep(s)
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

// Validate checks that the registry holds exactly the known steps and that every
// option is well formed and points somewhere that exists.
func (r *Registry) Validate() error {
	var errs []error

	for _, name := range domain.KnownSteps() {
		if _, ok := r.steps[name]; !ok {
			errs = append(errs, &ValidationError{Step: string(name), Option: -1, Reason: "missing"})
		}
	}

	for _, name := range r.order {
		step := r.steps[name]
		if !name.IsKnown() {
			errs = append(errs, &ValidationError{Step: string(name), Option: -1, Reason: "not a known step"})
		}
		if step.Text == "" {
			errs = append(errs, &ValidationError{Step: string(name), Option: -1, Reason: "empty text"})
		}
		if n := len(step.Options); n == 0 || n > MaxOptions {
			errs = append(errs, &ValidationError{Step: string(name), Option: -1, Reason: fmt.Sprintf("has %d options, want 1 to %d", n, MaxOptions)})
		}
		for i, opt := range step.Options {
			if opt.Label == "" {
				errs = append(errs, &ValidationError{Step: string(name), Option: i, Reason: "empty label"})
			}
			if err := opt.Action.Validate(); err != nil {
				errs = append(errs, &ValidationError{Step: string(name), Option: i, Reason: err.Error()})
				continue
			}
			if opt.Action.Kind == domain.ActionGoToStep {
				if _, ok := r.steps[opt.Action.Step]; !ok {
					errs = append(errs, &ValidationError{Step: string(name), Option: i, Reason: fmt.Sprintf("target %q does not exist", opt.Action.Step)})
				}
			}
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Get returns the step registered under name.
func (r *Registry) Get(name domain.StepName) (domain.Step, error) {
	step, ok := r.steps[name]
	if !ok {
		return domain.Step{}, &domain.UnknownStepError{Name: name}
	}
	return cloneStep(step), nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name domain.StepName) bool {
	_, ok := r.steps[name]
	return ok
}

// Steps returns every step in declared order.
func (r *Registry) Steps() []domain.Step {
	out := make([]domain.Step, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, cloneStep(r.steps[name]))
	}
	return out
}

func cloneStep(s domain.Step) domain.Step {
	opts := make([]domain.Option, len(s.Options))
	copy(opts, s.Options)
	s.Options = opts
	return s
}
