/*
Package session runs Nova dialogs for hosts that keep no engine in memory
between requests.

A Manager serializes access to each session, locally with reference-counted
mutexes and across replicas with an optional ports.DistributedLocker. A Service
builds on it: every call loads the saved state, replays one engine operation on
a recording presenter with virtual time, persists the result and returns a View
of what the visitor would see and hear.
*/
package session
