// Package apperr holds the error taxonomy shared by the workout core.
// Domain packages wrap these sentinels so callers can match on either
// the domain error or its category with errors.Is.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrUnresolvable     = errors.New("identity unresolvable")
	ErrSessionCompleted = errors.New("session already completed")
	ErrConflict         = errors.New("concurrent modification")
)

type ValidationError struct {
	Field  string
	Reason string
}

func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidationFailed, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidationFailed, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnresolvable):
		return http.StatusUnauthorized
	case errors.Is(err, ErrSessionCompleted), errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text safe to show to API clients.
func PublicMessage(err error) string {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUnresolvable),
		errors.Is(err, ErrSessionCompleted),
		errors.Is(err, ErrConflict):
		return err.Error()
	default:
		return "internal error"
	}
}
