/*
Package observability provides monitoring for the Nova dialog engine.

Metrics turns lifecycle hooks into Prometheus counters and instruments the
HTTP API. LoggingHooks audits the same lifecycle events with slog. Combine
merges several hook sets into one so both can be installed on an engine.
*/
package observability
