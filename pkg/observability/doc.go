/*
Package observability turns engine lifecycle events into metrics and audit logs.

Metrics exports Prometheus counters for dispatched, undone, redone and failed
actions plus the current history depth. LogHooks writes one structured log
record per event. Both produce domain.LifecycleHooks, which Combine merges
for gift.WithLifecycleHooks.
*/
package observability
