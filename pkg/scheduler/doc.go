/*
Package scheduler provides the two ports.Scheduler implementations used by Nova hosts.

  - Loop is a real single-goroutine event loop. Timers fire on their own goroutines
    and post their callbacks back onto the loop, so engine code never runs concurrently.
  - Manual keeps a virtual clock. Nothing runs until Advance or Flush is called,
    which makes timing deterministic in tests and lets stateless hosts settle a
    render before answering a request.
*/
package scheduler
