package errors

import (
	"net/http"

	"github.com/go-chi/render"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Error      string `json:"error"`
}

// NewErrorResponse builds the 500 body for err
func NewErrorResponse(err error) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		Error:      PublicMessage(err),
	}
}

// Render implements the render.Renderer interface for chi/render
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// WriteError renders err without a logger, for code paths outside the router
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	_ = render.Render(w, r, NewErrorResponse(err))
}
