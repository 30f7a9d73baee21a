/*
Package ports defines the driven ports (interfaces) for the Nova dialog engine.

The engine owns only its state and the step registry. Everything it touches on the
outside (the dialog widget, speech, page navigation, downloads, sound, timers and
session persistence) sits behind one of these interfaces so hosts can plug in a
browser bridge, a terminal, an HTTP recorder or a test double.

# Key Interfaces

  - Presenter: Displays step text and option buttons, and closes the dialog.
  - VoiceAnnouncer: Speaks text, cancelling any utterance in progress.
  - Navigator / AssetDownloader / SoundCue / Avatar: Host page effects.
  - Scheduler: Runs deferred callbacks (reveal, option delay, auto close).
  - StateStore: Persists session State between requests.
  - DistributedLocker: Provides distributed locking for concurrent session access.
*/
package ports
