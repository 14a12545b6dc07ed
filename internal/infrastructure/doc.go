// Package infrastructure holds the process-wide plumbing: the JSON slog
// logger with trace and request id injection, request context helpers and
// the OpenTelemetry providers with the service's business metrics.
package infrastructure
