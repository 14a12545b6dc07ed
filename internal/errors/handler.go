package errors

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ErrorHandler logs failures and renders them as {"error": message}
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError logs err with its kind and responds with status 500
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	attrs := []any{
		slog.String("error", err.Error()),
		slog.String("kind", string(KindOf(err))),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	}
	var e *Error
	if As(err, &e) {
		for k, v := range e.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
	}
	h.logger.ErrorContext(r.Context(), "request failed", attrs...)

	render.Render(w, r, NewErrorResponse(err))
}

// HandlePanic logs a recovered panic and responds with status 500
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	attrs := []any{
		slog.String("panic", fmt.Sprintf("%v", recovered)),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	}
	if h.includeStack {
		attrs = append(attrs, slog.String("stack", string(debug.Stack())))
	}
	h.logger.ErrorContext(r.Context(), "panic recovered", attrs...)

	render.Render(w, r, NewErrorResponse(nil))
}

// NotFound renders a 404 in the same {"error"} shape
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, &ErrorResponse{
		StatusCode: http.StatusNotFound,
		Error:      "Not Found",
	})
}

// MethodNotAllowed renders a 405 in the same {"error"} shape
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, &ErrorResponse{
		StatusCode: http.StatusMethodNotAllowed,
		Error:      fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
	})
}
