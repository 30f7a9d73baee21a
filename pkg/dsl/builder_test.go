package dsl

import (
	"testing"

	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func novaDialog() *Builder {
	b := New()

	b.Add(domain.StepIntro).
		Text("Hi! I'm Nova, your virtual assistant.").
		Go("Next", domain.StepEngagement).Icon("fas fa-arrow-right")

	b.Add(domain.StepEngagement).
		Text("Have you touched me today? I'm quite interactive!").
		Go("Yes, I have!", domain.StepResponseYes).Icon("fas fa-check").
		Go("Not yet", domain.StepResponseNo).Icon("fas fa-times").
		Back("Back").Icon("fas fa-arrow-left")

	b.Add(domain.StepResponseYes).
		Text("Great! Since you're interested, you can download my CV and explore hiring opportunities.").
		Option("Download CV", domain.DownloadAsset()).Icon("fas fa-download").
		Option("Hire Me", domain.NavigateTo("#contact")).Icon("fas fa-briefcase").
		Go("Next", domain.StepAskSkills).Icon("fas fa-arrow-right").
		Back("Back").Icon("fas fa-arrow-left")

	b.Add(domain.StepResponseNo).
		Text("No worries! I'm always here if you change your mind. Let me know if you need assistance.").
		Go("I need assistance", domain.StepAskSkills).Icon("fas fa-question").
		Option("Just browsing", domain.Dismiss()).Icon("far fa-eye").
		Back("Back").Icon("fas fa-arrow-left")

	b.Add(domain.StepAskSkills).
		Text("Would you like to know more about my skills or how I can assist you?").
		Option("Show Skills", domain.NavigateTo("#skills")).Icon("fas fa-code").
		Option("See Projects", domain.NavigateTo("#projects")).Icon("fas fa-laptop-code").
		Go("Give Feedback", domain.StepFeedback).Icon("fas fa-star").
		Back("Back").Icon("fas fa-arrow-left")

	b.Add(domain.StepFeedback).
		Text("How would you rate your interaction with me?").
		Option("Awesome!", domain.SubmitFeedback(domain.RatingAwesome)).Icon("fas fa-smile-beam").
		Option("Good", domain.SubmitFeedback(domain.RatingGood)).Icon("fas fa-smile").
		Option("Needs Work", domain.SubmitFeedback(domain.RatingPoor)).Icon("fas fa-meh").
		Back("Back").Icon("fas fa-arrow-left")

	return b
}

func TestBuilder_MatchesEmbeddedSteps(t *testing.T) {
	reg, err := novaDialog().Build()
	require.NoError(t, err)

	assert.Equal(t, registry.Default().Steps(), reg.Steps())
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New()
	b.Add(domain.StepIntro).Text("first")
	b.Add(domain.StepIntro).Go("Next", domain.StepEngagement)

	steps := b.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, "first", steps[0].Text)
	assert.Len(t, steps[0].Options, 1)
}

func TestBuilder_IconWithoutOptionIsIgnored(t *testing.T) {
	step := New().Add(domain.StepIntro).Icon("fas fa-star").Build()
	assert.Empty(t, step.Options)
}

func TestBuilder_BuildValidates(t *testing.T) {
	b := New()
	b.Add(domain.StepIntro).Text("Hi").Go("Next", domain.StepEngagement)

	_, err := b.Build()
	require.Error(t, err)
	var agg *registry.AggregateError
	assert.ErrorAs(t, err, &agg)
}

func TestStepBuilder_BuildCopies(t *testing.T) {
	sb := New().Add(domain.StepIntro).Text("Hi").Back("Back")
	step := sb.Build()
	sb.Go("Next", domain.StepEngagement)

	assert.Len(t, step.Options, 1)
	assert.Len(t, sb.Build().Options, 2)
}
