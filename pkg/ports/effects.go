package ports

import "context"

// VoiceAnnouncer converts text to speech. There is a single announcer per
// session: Speak cancels any utterance in progress first (last writer wins).
type VoiceAnnouncer interface {
	Speak(ctx context.Context, text string)
	Cancel()
}

// Navigator scrolls the host page.
type Navigator interface {
	// ScrollToAnchor smooth-scrolls to id (e.g. "#contact").
	// Returns domain.ErrAnchorNotFound when the page has no such element.
	ScrollToAnchor(ctx context.Context, id string) error
}

// AssetDownloader triggers a download of a statically named asset.
type AssetDownloader interface {
	Download(ctx context.Context, filename string) error
}

// SoundCue plays a short synthesized tone identified by name (e.g. "chirp").
type SoundCue interface {
	Play(ctx context.Context, cue string) error
}

// Avatar owns the visual pulse played when the user activates Nova.
type Avatar interface {
	Pulse(ctx context.Context)
}
