package runtime

import (
	"context"
	"time"

	"github.com/aretw0/nova/pkg/ports"
)

// Defaults used when a host leaves a collaborator unset.

type nopPresenter struct{}

func (nopPresenter) ShowText(context.Context, string)                {}
func (nopPresenter) ShowOptions(context.Context, []ports.OptionView) {}
func (nopPresenter) Close(context.Context)                           {}

type nopVoice struct{}

func (nopVoice) Speak(context.Context, string) {}
func (nopVoice) Cancel()                       {}

type nopEffects struct{}

func (nopEffects) ScrollToAnchor(context.Context, string) error { return nil }
func (nopEffects) Download(context.Context, string) error       { return nil }
func (nopEffects) Play(context.Context, string) error           { return nil }
func (nopEffects) Pulse(context.Context)                        {}

type inlineScheduler struct{}

func (inlineScheduler) AfterFunc(_ time.Duration, fn func()) { fn() }

