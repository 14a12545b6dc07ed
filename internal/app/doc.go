// Package app wires the metrics service together and manages its lifecycle.
//
// # Initialization Flow
//
//	1. Initialize OpenTelemetry providers and business metrics
//	2. Create the Google Sheets client and the metrics and health services
//	3. Build the chi router with the shared middleware chain
//	4. Create the HTTP server
//
// # Routes
//
//	GET  /api/sheets        weekly metrics envelope
//	GET  /api/health        readiness, reports whether the sheet is configured
//	GET  /api/health/live   liveness
//	GET  /metrics           Prometheus exposition
//
// ServerlessHandler returns the same router with the metrics endpoint also
// answering at "/".
//
// # Shutdown
//
// Run serves until SIGINT or SIGTERM, then drains in-flight requests within
// Server.ShutdownTimeout and flushes telemetry.
package app
