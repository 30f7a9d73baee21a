package registry

import "fmt"

// ValidationError represents a single content problem.
type ValidationError struct {
	Step   string // Step name, empty for document-level problems
	Option int    // Option index, -1 when the problem is on the step itself
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Step == "":
		return e.Reason
	case e.Option < 0:
		return fmt.Sprintf("step %q: %s", e.Step, e.Reason)
	}
	return fmt.Sprintf("step %q option %d: %s", e.Step, e.Option, e.Reason)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
