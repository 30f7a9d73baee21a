package validator

import (
	"testing"

	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGraph_EmbeddedStepsAreReachable(t *testing.T) {
	assert.NoError(t, ValidateGraph(registry.Default().Steps()))
}

func TestUnreachable(t *testing.T) {
	steps := registry.Default().Steps()
	for i := range steps {
		if steps[i].Name == domain.StepAskSkills {
			// Cut the only way into feedback.
			steps[i].Options = steps[i].Options[:2]
		}
	}

	assert.Equal(t, []domain.StepName{domain.StepFeedback}, Unreachable(steps, domain.StepIntro))

	err := ValidateGraph(steps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 unreachable steps")
	assert.Contains(t, err.Error(), "- feedback")
}

func TestUnreachable_FromOtherStart(t *testing.T) {
	steps := registry.Default().Steps()
	lost := Unreachable(steps, domain.StepFeedback)
	assert.Len(t, lost, 5, "feedback only goes back or closes")
}
