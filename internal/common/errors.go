package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures so the handler boundary can map them to an
// HTTP status without inspecting message text.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is the service-level error carried up to the handler boundary.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewAuthError(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NewNotFoundError(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewInternalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// HTTPStatus maps an error to its response status. Anything that is not a
// *common.Error is an internal fault.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show callers. Internal faults
// collapse to a generic message; the detail stays in the server log.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Internal server error"
}
