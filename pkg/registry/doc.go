/*
Package registry holds Nova's step content.

The dialog graph is declarative data: an embedded YAML document lists every step,
its text and its ordered options. Content is decoded and validated once at startup;
after that a Registry is read-only and safe for concurrent use.

	reg := registry.Default()
	step, err := reg.Get(domain.StepIntro)
*/
package registry
