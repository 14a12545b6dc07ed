// Package http implements the HTTP handlers of the metrics service. Handlers
// are thin: they call a service, set the response headers and render JSON
// through go-chi/render.
//
// # Routes
//
//	GET     /api/sheets       weekly metrics envelope
//	OPTIONS /api/sheets       CORS preflight, 204
//	GET     /api/health       health with sheet configuration status
//	GET     /api/health/live  liveness
//	GET     /metrics          Prometheus exposition
//
// # Responses
//
// A successful GET /api/sheets carries
//
//	Cache-Control: s-maxage=900, stale-while-revalidate
//	Access-Control-Allow-Origin: *
//	Access-Control-Allow-Methods: GET
//
// Failures are rendered by errors.ErrorHandler as 500 {"error": "<message>"}
// with the CORS headers kept and no Cache-Control header.
package http
