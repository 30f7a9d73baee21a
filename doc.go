/*
Package nova is the dialog engine behind the Nova portfolio assistant: a small
avatar that greets visitors, walks them through a fixed set of steps and
offers a resume download, page navigation and a feedback rating.

The engine is a stack-based state machine. Moving to a step pushes the one
being left, Back pops it, and the remaining actions are terminal effects
delegated to collaborators: a Presenter draws the dialog, a VoiceAnnouncer
speaks, a Navigator scrolls the host page, an AssetDownloader serves the
resume and a SoundCue plays the activation chirp.

# Usage

	rec := record.New()
	eng := nova.New(
		nova.WithPresenter(rec),
		nova.WithVoice(rec),
	)

	ctx := context.Background()
	if err := eng.Activate(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Println(rec.View().Text) // Hi! I'm Nova, your virtual assistant.

Hosts that need persistence across requests use pkg/session, which replays
each operation on a fresh engine over a stored State.

An Engine is not safe for concurrent use. Every call, including deferred
callbacks fired by the Scheduler, must run on one event loop; pkg/scheduler
provides a real loop and a virtual clock for tests.
*/
package nova
