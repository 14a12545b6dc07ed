// Package services implements the business logic between the HTTP handlers
// and the Sheets client.
//
// MetricsService runs one request end to end:
//
//	validate sheet settings → fetch values → split header → transform
//
// It holds no state between calls. Every failure it returns is an
// *errors.Error whose Message is safe to show to clients.
//
// HealthService answers the health and liveness probes without touching the
// upstream API.
package services
