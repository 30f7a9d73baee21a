package dsl

import (
	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/registry"
)

// Builder manages the dialog construction. Steps keep the order they were
// first added in.
type Builder struct {
	steps map[domain.StepName]*StepBuilder
	order []domain.StepName
}

// New creates a new dialog builder.
func New() *Builder {
	return &Builder{
		steps: make(map[domain.StepName]*StepBuilder),
	}
}

// Add creates a new step in the dialog.
// If the step already exists, it returns the existing builder.
func (b *Builder) Add(name domain.StepName) *StepBuilder {
	if sb, ok := b.steps[name]; ok {
		return sb
	}
	sb := &StepBuilder{step: domain.Step{Name: name}}
	b.steps[name] = sb
	b.order = append(b.order, name)
	return sb
}

// Steps returns the steps built so far.
func (b *Builder) Steps() []domain.Step {
	out := make([]domain.Step, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.steps[name].Build())
	}
	return out
}

// Build validates the dialog into a registry.
func (b *Builder) Build() (*registry.Registry, error) {
	return registry.New(b.Steps()...)
}

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step domain.Step
}

// Text sets what Nova says on the step.
func (s *StepBuilder) Text(text string) *StepBuilder {
	s.step.Text = text
	return s
}

// Option appends a button. Use Icon right after to decorate it.
func (s *StepBuilder) Option(label string, action domain.Action) *StepBuilder {
	s.step.Options = append(s.step.Options, domain.Option{Label: label, Action: action})
	return s
}

// Icon sets the icon class of the last added option.
func (s *StepBuilder) Icon(icon string) *StepBuilder {
	if n := len(s.step.Options); n > 0 {
		s.step.Options[n-1].Icon = icon
	}
	return s
}

// Go appends an option moving to target.
func (s *StepBuilder) Go(label string, target domain.StepName) *StepBuilder {
	return s.Option(label, domain.GoToStep(target))
}

// Back appends an option returning to the previous step.
func (s *StepBuilder) Back(label string) *StepBuilder {
	return s.Option(label, domain.GoBack())
}

// Build returns a copy of the step.
func (s *StepBuilder) Build() domain.Step {
	out := s.step
	out.Options = append([]domain.Option(nil), s.step.Options...)
	return out
}
