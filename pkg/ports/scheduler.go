package ports

import "time"

// Scheduler runs deferred callbacks. Callbacks must be delivered on the same
// event loop that drives the engine, so engine code never runs concurrently.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}
