// Package record provides collaborators that capture the dialog instead of
// drawing it. Stateless hosts (HTTP, MCP) turn the capture into a response,
// the websocket host streams it, and tests assert on it.
package record

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/ports"
)

// EventKind names a captured collaborator call.
type EventKind string

const (
	EventText     EventKind = "text"
	EventReveal   EventKind = "reveal"
	EventOptions  EventKind = "options"
	EventClose    EventKind = "close"
	EventSpeak    EventKind = "speak"
	EventCancel   EventKind = "cancel"
	EventNavigate EventKind = "navigate"
	EventDownload EventKind = "download"
	EventCue      EventKind = "cue"
	EventPulse    EventKind = "pulse"
)

// Event is one captured call, in call order.
type Event struct {
	Kind    EventKind          `json:"kind"`
	Text    string             `json:"text,omitempty"`
	Options []ports.OptionView `json:"options,omitempty"`
}

// View is what a visitor would currently see and hear.
type View struct {
	Open    bool               `json:"open"`
	Text    string             `json:"text"`
	Visible string             `json:"visible"`
	Options []ports.OptionView `json:"options"`
	Spoken  string             `json:"spoken,omitempty"`
}

// Recorder implements every collaborator port.
// It is safe for concurrent use, although the engine calls it from one loop.
type Recorder struct {
	mu     sync.Mutex
	view   View
	events []Event
	sink   func(Event)

	// anchors limits ScrollToAnchor to known ids. Nil accepts every anchor.
	anchors map[string]bool

	// Failure injection for the corresponding collaborator.
	DownloadErr error
	SoundErr    error
	NavigateErr error
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithAnchors restricts navigation to the given anchor ids (e.g. "#contact").
func WithAnchors(anchors ...string) Option {
	return func(r *Recorder) {
		r.anchors = make(map[string]bool, len(anchors))
		for _, a := range anchors {
			r.anchors[a] = true
		}
	}
}

// WithSink receives every event as it is recorded.
func WithSink(sink func(Event)) Option {
	return func(r *Recorder) {
		r.sink = sink
	}
}

// New creates an empty recorder.
func New(opts ...Option) *Recorder {
	r := &Recorder{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var (
	_ ports.Presenter       = (*Recorder)(nil)
	_ ports.Revealer        = (*Recorder)(nil)
	_ ports.VoiceAnnouncer  = (*Recorder)(nil)
	_ ports.Navigator       = (*Recorder)(nil)
	_ ports.AssetDownloader = (*Recorder)(nil)
	_ ports.SoundCue        = (*Recorder)(nil)
	_ ports.Avatar          = (*Recorder)(nil)
)

func (r *Recorder) record(ev Event) {
	r.events = append(r.events, ev)
	if r.sink != nil {
		r.sink(ev)
	}
}

// ShowText opens the dialog and clears the previous text and options.
func (r *Recorder) ShowText(ctx context.Context, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Open = true
	r.view.Text = text
	r.view.Visible = ""
	r.view.Options = nil
	r.record(Event{Kind: EventText, Text: text})
}

// Reveal records the visible prefix of the current text.
func (r *Recorder) Reveal(ctx context.Context, visible string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Visible = visible
	r.record(Event{Kind: EventReveal, Text: visible})
}

// ShowOptions replaces the current buttons.
func (r *Recorder) ShowOptions(ctx context.Context, options []ports.OptionView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Options = append([]ports.OptionView(nil), options...)
	r.record(Event{Kind: EventOptions, Options: r.view.Options})
}

// Close hides the dialog. Text and options stay as they were.
func (r *Recorder) Close(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Open = false
	r.record(Event{Kind: EventClose})
}

// Speak replaces any utterance in progress.
func (r *Recorder) Speak(ctx context.Context, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Spoken = text
	r.record(Event{Kind: EventSpeak, Text: text})
}

// Cancel stops the current utterance.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Spoken = ""
	r.record(Event{Kind: EventCancel})
}

// ScrollToAnchor records the navigation, failing for anchors outside the allow list.
func (r *Recorder) ScrollToAnchor(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.NavigateErr != nil {
		return r.NavigateErr
	}
	if r.anchors != nil && !r.anchors[id] {
		return fmt.Errorf("%w: %s", domain.ErrAnchorNotFound, id)
	}
	r.record(Event{Kind: EventNavigate, Text: id})
	return nil
}

// Download records the requested asset.
func (r *Recorder) Download(ctx context.Context, filename string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.DownloadErr != nil {
		return r.DownloadErr
	}
	r.record(Event{Kind: EventDownload, Text: filename})
	return nil
}

// Play records the sound cue.
func (r *Recorder) Play(ctx context.Context, cue string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SoundErr != nil {
		return r.SoundErr
	}
	r.record(Event{Kind: EventCue, Text: cue})
	return nil
}

// Pulse records the avatar bounce.
func (r *Recorder) Pulse(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Event{Kind: EventPulse})
}

// View returns a copy of the current view.
func (r *Recorder) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.view
	v.Options = append([]ports.OptionView(nil), r.view.Options...)
	return v
}

// Events returns a copy of the events recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Drain returns the recorded events and clears the log.
func (r *Recorder) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

// Labels returns the labels of the displayed options.
func (r *Recorder) Labels() []string {
	v := r.View()
	out := make([]string, 0, len(v.Options))
	for _, o := range v.Options {
		out = append(out, o.Label)
	}
	return out
}

// Press clicks the displayed option with the given label.
// It must be called from the engine's loop, like any other engine input.
func (r *Recorder) Press(label string) error {
	for _, o := range r.View().Options {
		if o.Label == label {
			o.Select()
			return nil
		}
	}
	return fmt.Errorf("%w: no displayed option %q", domain.ErrNoSuchOption, label)
}

// Kinds returns the kinds of the recorded events, for compact assertions.
func Kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

// Filter returns the events of one kind.
func Filter(events []Event, kind EventKind) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
