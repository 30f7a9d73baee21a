package domain

// State is the per-session snapshot owned by the Dialog Engine.
// It is mutated only by transition, back and hide operations.
type State struct {
	// CurrentStep is the active step. Empty means none has been shown yet.
	CurrentStep StepName `json:"current_step,omitempty"`

	// History is a LIFO stack of previously active steps. The last element is the top.
	History []StepName `json:"history"`

	// HasEngaged is true once the user has activated the avatar.
	HasEngaged bool `json:"has_engaged"`

	// Open reports whether the dialog is visible. A closed dialog may still
	// have a CurrentStep to resume from.
	Open bool `json:"open"`
}

// NewState creates the initial state: no step, empty history, not engaged, closed.
func NewState() *State {
	return &State{
		History: []StepName{},
	}
}

// Push records name on top of the history stack.
func (s *State) Push(name StepName) {
	s.History = append(s.History, name)
}

// Pop removes and returns the top of the history stack.
// ok is false when the stack is empty.
func (s *State) Pop() (name StepName, ok bool) {
	if len(s.History) == 0 {
		return "", false
	}
	last := len(s.History) - 1
	name = s.History[last]
	s.History = s.History[:last]
	return name, true
}

// Top returns the most recently pushed step without removing it.
func (s *State) Top() (StepName, bool) {
	if len(s.History) == 0 {
		return "", false
	}
	return s.History[len(s.History)-1], true
}

// Snapshot returns a deep copy safe to hand to other goroutines or stores.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.History = make([]StepName, len(s.History))
	copy(next.History, s.History)
	return &next
}
