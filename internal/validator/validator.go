package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/nova/pkg/domain"
)

// Unreachable crawls the go-to edges from start and returns the steps no
// visitor can reach, in declared order. Back options add no edges: they only
// return to steps already visited.
func Unreachable(steps []domain.Step, start domain.StepName) []domain.StepName {
	byName := make(map[domain.StepName]domain.Step, len(steps))
	for _, s := range steps {
		byName[s.Name] = s
	}

	visited := make(map[domain.StepName]bool)
	queue := []domain.StepName{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		step, ok := byName[current]
		if !ok {
			continue
		}
		for _, opt := range step.Options {
			if opt.Action.Kind == domain.ActionGoToStep && !visited[opt.Action.Step] {
				queue = append(queue, opt.Action.Step)
			}
		}
	}

	var out []domain.StepName
	for _, s := range steps {
		if !visited[s.Name] {
			out = append(out, s.Name)
		}
	}
	return out
}

// ValidateGraph fails when a step cannot be reached from intro.
func ValidateGraph(steps []domain.Step) error {
	lost := Unreachable(steps, domain.StepIntro)
	if len(lost) == 0 {
		return nil
	}
	names := make([]string, len(lost))
	for i, n := range lost {
		names[i] = string(n)
	}
	return fmt.Errorf("found %d unreachable steps:\n- %s", len(lost), strings.Join(names, "\n- "))
}
