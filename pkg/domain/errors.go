package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownStep matches any UnknownStepError via errors.Is.
var ErrUnknownStep = errors.New("unknown step")

// ErrNoSuchOption is returned when an option index is outside the current step's options.
var ErrNoSuchOption = errors.New("no such option")

// ErrDialogClosed is returned when an option is selected while the dialog is hidden.
var ErrDialogClosed = errors.New("dialog is closed")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrAnchorNotFound is returned by navigators when the page has no such anchor.
var ErrAnchorNotFound = errors.New("anchor not found")

// UnknownStepError reports a step name that is not in the registry.
// It indicates a broken registry or a malformed external call and must be surfaced.
type UnknownStepError struct {
	Name StepName
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("unknown step %q", string(e.Name))
}

// Is lets errors.Is(err, ErrUnknownStep) match.
func (e *UnknownStepError) Is(target error) bool {
	return target == ErrUnknownStep
}
