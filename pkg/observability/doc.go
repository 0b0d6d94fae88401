/*
Package observability turns engine lifecycle hooks into Prometheus metrics and
structured log records.

Both producers return domain.LifecycleHooks, so they can be combined with
LifecycleHooks.Merge and handed to the engine, the session manager's engine and
the gesture controller alike.
*/
package observability
