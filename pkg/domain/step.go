package domain

// StepName identifies a step in the dialog graph.
type StepName string

// The fixed set of steps. The registry must define all of them and nothing else.
const (
	StepIntro       StepName = "intro"
	StepEngagement  StepName = "engagement"
	StepResponseYes StepName = "response_yes"
	StepResponseNo  StepName = "response_no"
	StepAskSkills   StepName = "ask_skills"
	StepFeedback    StepName = "feedback"
)

// KnownSteps returns the registered step names in their canonical order.
func KnownSteps() []StepName {
	return []StepName{
		StepIntro,
		StepEngagement,
		StepResponseYes,
		StepResponseNo,
		StepAskSkills,
		StepFeedback,
	}
}

// IsKnown reports whether name belongs to the fixed step set.
func (n StepName) IsKnown() bool {
	for _, k := range KnownSteps() {
		if k == n {
			return true
		}
	}
	return false
}

func (n StepName) String() string {
	return string(n)
}

// Step is an immutable node of the dialog graph.
type Step struct {
	Name StepName `json:"name" yaml:"name"`
	Text string   `json:"text" yaml:"text"`

	// Options are ordered: the order is the on-screen button order.
	Options []Option `json:"options" yaml:"options"`
}

// Option is a choice attached to exactly one Step.
type Option struct {
	Label  string `json:"label" yaml:"label"`
	Icon   string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Action Action `json:"action" yaml:"action"`
}
