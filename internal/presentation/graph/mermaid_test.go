package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/nova/internal/presentation/graph"
	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/registry"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	got := graph.GenerateMermaid(registry.Default().Steps(), nil)

	for _, want := range []string{
		"graph TD\n",
		`intro(("intro"))`,
		`feedback(["feedback"])`,
		`ask_skills["ask_skills"]`,
		`intro -- "Next" --> engagement`,
		`engagement -- "Yes, I have!" --> response_yes`,
		`engagement -. "Back" .-> history`,
		`response_yes -- "Download CV" --> download`,
		`response_yes -- "Hire Me" --> nav_contact`,
		`nav_contact{{"#contact"}}`,
		`response_no -- "Just browsing" --> close`,
		`feedback -- "Needs Work" --> close`,
		`history[("history")]`,
	} {
		assert.Contains(t, got, want)
	}
	assert.Equal(t, 1, strings.Count(got, `close(("close"))`), "effect nodes are declared once")
	assert.NotContains(t, got, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	got := graph.GenerateMermaid(registry.Default().Steps(), &graph.Overlay{
		Visited: []domain.StepName{domain.StepIntro, domain.StepEngagement, domain.StepIntro},
		Current: domain.StepResponseNo,
	})

	assert.Equal(t, 1, strings.Count(got, "class intro visited;"))
	assert.Contains(t, got, "class engagement visited;")
	assert.Contains(t, got, "class response_no current;")
}

func TestGenerateMermaid_Escaping(t *testing.T) {
	steps := []domain.Step{{
		Name: "my-step",
		Text: "x",
		Options: []domain.Option{
			{Label: `Say "hi"`, Action: domain.GoToStep("next.step")},
		},
	}}

	got := graph.GenerateMermaid(steps, nil)
	assert.Contains(t, got, `my_step["my-step"]`)
	assert.Contains(t, got, `my_step -- "Say 'hi'" --> next_step`)
}
