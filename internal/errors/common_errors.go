package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure of the metrics endpoint
type Kind string

const (
	KindConfig    Kind = "config"
	KindUpstream  Kind = "upstream"
	KindEmptyData Kind = "empty_data"
	KindInternal  Kind = "internal"
)

// Client-facing messages
const (
	MsgMissingConfig = "Missing environment variables"
	MsgNoData        = "No data found in sheet"
	MsgInternal      = "Internal server error"
)

// Error is the single error type surfaced by the metrics pipeline.
// Message is safe to return to clients; Cause is only logged.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is and errors.As to see the cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds a loggable key to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new classified error
func New(kind Kind, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError reports missing sheet settings
func NewConfigError(cause error) *Error {
	return New(KindConfig, MsgMissingConfig, cause)
}

// NewUpstreamError reports a non-success status from the Sheets API
func NewUpstreamError(status int, cause error) *Error {
	text := http.StatusText(status)
	if text == "" {
		text = fmt.Sprintf("status %d", status)
	}
	return New(KindUpstream, "Google Sheets API error: "+text, cause).
		WithContext("upstream_status", status)
}

// NewUpstreamRequestError reports a request that never produced a status
func NewUpstreamRequestError(cause error) *Error {
	msg := "Google Sheets API request failed"
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return New(KindUpstream, msg, cause)
}

// NewEmptyDataError reports a sheet without a values grid
func NewEmptyDataError() *Error {
	return New(KindEmptyData, MsgNoData, nil)
}

// KindOf returns the kind of err, or KindInternal for unclassified errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PublicMessage returns the message that may be sent to clients
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return MsgInternal
}

// As finds the first error in err's tree that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
