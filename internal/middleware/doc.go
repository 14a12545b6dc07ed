// Package middleware provides the HTTP middleware chain of the service:
// request ids, structured request logging, panic recovery, rate limiting,
// CORS, security headers and OpenTelemetry instrumentation.
//
// Recommended order:
//
//	RequestID → RealIP → OTel → StructuredLogger → Recoverer → RateLimiter → CORS
package middleware
