// Package apperr defines the closed set of error kinds the core signals to
// its callers, per the error model the transport layer maps to HTTP status
// codes.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind is a closed tag identifying why an operation failed.
type Kind string

const (
	NotFound         Kind = "not-found"
	InvalidArgument  Kind = "invalid-argument"
	CatalogNotLoaded Kind = "catalog-not-loaded"
	Internal         Kind = "internal"
)

// Error carries a Kind plus a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgumentf(format string, args ...interface{}) *Error {
	return &Error{Kind: InvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func Internalf(format string, args ...interface{}) *Error {
	return &Error{Kind: Internal, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, defaulting to Internal for errors the
// core did not tag itself (e.g. a bare error bubbled up from a dependency).
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return Internal
}

// HTTPStatus maps a Kind to the status code the transport layer should use.
func HTTPStatus(kind Kind) int {
	switch kind {
	case NotFound:
		return http.StatusNotFound
	case InvalidArgument:
		return http.StatusBadRequest
	case CatalogNotLoaded:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
