package ports

import "context"

// OptionView is an option as handed to a Presenter.
// Select dispatches the option's action on the engine; it must be called from the
// same event loop that drives the engine, never from inside ShowOptions.
type OptionView struct {
	Label  string `json:"label"`
	Icon   string `json:"icon,omitempty"`
	Select func() `json:"-"`
}

// Presenter renders the dialog widget.
type Presenter interface {
	// ShowText begins a progressive reveal of text, clearing the previous text and
	// options. The dialog becomes visible as a side effect.
	ShowText(ctx context.Context, text string)

	// ShowOptions replaces the displayed options, in order.
	ShowOptions(ctx context.Context, options []OptionView)

	// Close hides the dialog.
	Close(ctx context.Context)
}

// Revealer is implemented by presenters that want the engine to drive the
// typing effect. Reveal receives the growing visible prefix of the text last
// passed to ShowText.
type Revealer interface {
	Reveal(ctx context.Context, visible string)
}
