package domain

import (
	"fmt"
	"strings"
)

// ActionKind tags the variant carried by an Action.
type ActionKind string

const (
	// ActionGoToStep transitions to another named step, pushing the current one.
	ActionGoToStep ActionKind = "go_to_step"
	// ActionGoBack pops the history stack.
	ActionGoBack ActionKind = "go_back"
	// ActionDownloadAsset triggers the static resume download.
	ActionDownloadAsset ActionKind = "download_asset"
	// ActionNavigateTo scrolls the host page to an anchor.
	ActionNavigateTo ActionKind = "navigate_to"
	// ActionSubmitFeedback acknowledges a rating and closes the dialog after a delay.
	ActionSubmitFeedback ActionKind = "submit_feedback"
	// ActionDismiss closes the dialog.
	ActionDismiss ActionKind = "dismiss"
)

// Action is the effect of selecting an Option.
// Only the payload field matching Kind is meaningful.
type Action struct {
	Kind   ActionKind `json:"kind" yaml:"kind"`
	Step   StepName   `json:"step,omitempty" yaml:"step,omitempty"`
	Anchor string     `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	Rating Rating     `json:"rating,omitempty" yaml:"rating,omitempty"`
}

// GoToStep builds a transition to name.
func GoToStep(name StepName) Action {
	return Action{Kind: ActionGoToStep, Step: name}
}

// GoBack builds a history pop.
func GoBack() Action {
	return Action{Kind: ActionGoBack}
}

// DownloadAsset builds the resume download action.
func DownloadAsset() Action {
	return Action{Kind: ActionDownloadAsset}
}

// NavigateTo builds a scroll to anchor, e.g. "#contact".
func NavigateTo(anchor string) Action {
	return Action{Kind: ActionNavigateTo, Anchor: anchor}
}

// SubmitFeedback builds a rating submission.
func SubmitFeedback(r Rating) Action {
	return Action{Kind: ActionSubmitFeedback, Rating: r}
}

// Dismiss builds a close action.
func Dismiss() Action {
	return Action{Kind: ActionDismiss}
}

// Validate checks that the payload required by Kind is present and well formed.
// It does not check that a GoToStep target exists in a registry.
func (a Action) Validate() error {
	switch a.Kind {
	case ActionGoToStep:
		if a.Step == "" {
			return fmt.Errorf("action %s: missing step", a.Kind)
		}
	case ActionNavigateTo:
		if !strings.HasPrefix(a.Anchor, "#") || len(a.Anchor) < 2 {
			return fmt.Errorf("action %s: anchor %q must look like #id", a.Kind, a.Anchor)
		}
	case ActionSubmitFeedback:
		if !a.Rating.Valid() {
			return fmt.Errorf("action %s: invalid rating %q", a.Kind, a.Rating)
		}
	case ActionGoBack, ActionDownloadAsset, ActionDismiss:
	default:
		return fmt.Errorf("unknown action kind %q", a.Kind)
	}
	return nil
}

func (a Action) String() string {
	switch a.Kind {
	case ActionGoToStep:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Step)
	case ActionNavigateTo:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Anchor)
	case ActionSubmitFeedback:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Rating)
	}
	return string(a.Kind)
}
