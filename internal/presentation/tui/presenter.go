package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/nova/pkg/ports"
	"github.com/muesli/termenv"
)

const speaker = "Nova: "

// Presenter draws the dialog as terminal lines: the text
// types out after a "Nova:" prefix and the options follow as a numbered list.
type Presenter struct {
	mu  sync.Mutex
	w   io.Writer
	out *termenv.Output

	printed  string
	lineOpen bool
	open     bool
	options  []ports.OptionView
}

var (
	_ ports.Presenter = (*Presenter)(nil)
	_ ports.Revealer  = (*Presenter)(nil)
	_ ports.Avatar    = (*Presenter)(nil)
)

// NewPresenter creates a presenter writing to w. Options are passed to
// termenv, e.g. termenv.WithProfile(termenv.Ascii) to disable colors.
func NewPresenter(w io.Writer, opts ...termenv.OutputOption) *Presenter {
	return &Presenter{w: w, out: termenv.NewOutput(w, opts...)}
}

func (p *Presenter) endLine() {
	if p.lineOpen {
		fmt.Fprintln(p.w)
		p.lineOpen = false
	}
}

// ShowText starts a new dialog line. The text itself appears through Reveal.
func (p *Presenter) ShowText(ctx context.Context, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endLine()
	fmt.Fprint(p.w, p.out.String(speaker).Foreground(p.out.Color("#a78bfa")).Bold())
	p.printed = ""
	p.lineOpen = true
	p.open = true
	p.options = nil
}

// Reveal prints the part of visible not on screen yet.
func (p *Presenter) Reveal(ctx context.Context, visible string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.lineOpen {
		return
	}
	if !strings.HasPrefix(visible, p.printed) {
		fmt.Fprintf(p.w, "\r%s%s", speaker, visible)
	} else {
		fmt.Fprint(p.w, visible[len(p.printed):])
	}
	p.printed = visible
}

// ShowOptions prints the options numbered from 1.
func (p *Presenter) ShowOptions(ctx context.Context, options []ports.OptionView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endLine()
	p.options = append([]ports.OptionView(nil), options...)
	for i, o := range options {
		num := p.out.String(fmt.Sprintf("[%d]", i+1)).Foreground(p.out.Color("#f472b6"))
		fmt.Fprintf(p.w, "  %s %s\n", num, o.Label)
	}
}

// Close ends the dialog. The options are no longer selectable.
func (p *Presenter) Close(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endLine()
	p.open = false
	p.options = nil
	fmt.Fprintln(p.w, p.out.String("(dialog closed, type 'a' to wake Nova)").Faint())
}

// Pulse marks the activation.
func (p *Presenter) Pulse(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endLine()
	fmt.Fprintln(p.w, p.out.String("*").Foreground(p.out.Color("#fb7185")))
}

// Open reports whether the dialog is shown.
func (p *Presenter) Open() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// Options returns the selectable options.
func (p *Presenter) Options() []ports.OptionView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.OptionView(nil), p.options...)
}
