// Package apperrors holds the typed errors that services return and handlers
// turn into HTTP responses.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Type string

const (
	TypeValidation   Type = "validation"
	TypeUnauthorized Type = "unauthorized"
	TypeForbidden    Type = "forbidden"
	TypeNotFound     Type = "not_found"
	TypeConflict     Type = "conflict"
	TypeInternal     Type = "internal"
)

// Error is a user-facing failure: Message is the short title, Description the
// longer text shown next to it.
type Error struct {
	Type        Type
	Message     string
	Description string
	Cause       error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeUnauthorized:
		return http.StatusUnauthorized
	case TypeForbidden:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WithDescription returns a copy carrying the given description.
func (e *Error) WithDescription(format string, args ...any) *Error {
	cp := *e
	cp.Description = fmt.Sprintf(format, args...)
	return &cp
}

func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Cause = cause
	return &cp
}

func Validation(message string) *Error {
	return &Error{Type: TypeValidation, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Type: TypeUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Type: TypeForbidden, Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Type: TypeNotFound, Message: resource + " not found"}
}

func Conflict(message string) *Error {
	return &Error{Type: TypeConflict, Message: message}
}

func Internal(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Cause: cause}
}

// As extracts an *Error from the chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries an *Error of the given type.
func Is(err error, t Type) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}

// Status maps any error to an HTTP status; untyped errors are 500.
func Status(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// Body is the JSON envelope handlers send for failures.
type Body struct {
	Error       string `json:"error"`
	Description string `json:"description,omitempty"`
}

// Response maps err to a status and body. Internal causes are never exposed.
func Response(err error) (int, Body) {
	appErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError, Body{Error: "Internal server error"}
	}
	return appErr.HTTPStatus(), Body{Error: appErr.Message, Description: appErr.Description}
}
