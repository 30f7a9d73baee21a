package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventActivate  EventType = "activate"
	EventStepEnter EventType = "step_enter"
	EventAction    EventType = "action"
	EventFeedback  EventType = "feedback"
	EventClose     EventType = "close"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StepEvent is emitted each time a step is rendered.
type StepEvent struct {
	EventBase
	Step    StepName `json:"step"`
	Back    bool     `json:"back,omitempty"`    // reached by popping history
	Resumed bool     `json:"resumed,omitempty"` // re-rendered by activation
}

// ActionEvent is emitted when an option's action is dispatched.
type ActionEvent struct {
	EventBase
	Step   StepName `json:"step"`
	Action Action   `json:"action"`
}

// FeedbackEvent is emitted when a rating is submitted.
type FeedbackEvent struct {
	EventBase
	Rating Rating `json:"rating"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnActivate  func(context.Context, *EventBase)
	OnStepEnter func(context.Context, *StepEvent)
	OnAction    func(context.Context, *ActionEvent)
	OnFeedback  func(context.Context, *FeedbackEvent)
	OnClose     func(context.Context, *EventBase)
}
