// Package errors classifies failures of the metrics endpoint and renders
// them. Every failure is an *Error with a Kind (config, upstream, empty_data)
// and a client-safe Message; ErrorHandler logs it and writes
// 500 {"error": Message} through go-chi/render.
package errors
