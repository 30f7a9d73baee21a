/*
Package dsl builds dialog steps in Go instead of YAML.

Example usage:

	b := dsl.New()

	b.Add(domain.StepIntro).
		Text("Hi! I'm Nova.").
		Go("Next", domain.StepEngagement).Icon("fas fa-arrow-right")

	b.Add(domain.StepEngagement).
		Text("Have you touched me today?").
		Go("Yes, I have!", domain.StepResponseYes).
		Back("Back")

	// ... the remaining steps

	reg, err := b.Build() // validated like a steps file
*/
package dsl
