/*
Package observability turns walk hooks into metrics and audit logs.

Metrics are registered on a caller supplied prometheus.Registerer so that
several setters, or tests, never collide on the default registry.
*/
package observability
