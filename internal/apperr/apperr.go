// Package apperr defines the error kinds surfaced by services and how they map to HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	NotFound      Kind = "NOT_FOUND"
	AlreadyExists Kind = "ALREADY_EXISTS"
	Validation    Kind = "VALIDATION_ERROR"
	Unauthorized  Kind = "UNAUTHORIZED"
	Internal      Kind = "INTERNAL_SERVER_ERROR"
)

type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}

func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, format, args...)
}

func AlreadyExistsf(format string, args ...any) *Error {
	return New(AlreadyExists, format, args...)
}

func Validationf(format string, args ...any) *Error {
	return New(Validation, format, args...)
}

// KindOf reports the kind of the first *Error in the chain, Internal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// DetailOf returns the client-facing message. Internal errors never leak their cause.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Detail
	}
	return "Internal server error"
}

func Status(kind Kind) int {
	switch kind {
	case NotFound:
		return http.StatusNotFound
	case AlreadyExists:
		return http.StatusConflict
	case Validation:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
