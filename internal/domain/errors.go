package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo functions when the requested resource does
// not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing destination, unknown transport mode). Invalid input is
// rejected before any external provider call is made.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ValidationError carries the human-readable reason an input was rejected.
// It matches ErrValidation under errors.Is, so callers can branch on the
// sentinel and recover the reason with errors.As instead of parsing the
// error string.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ErrLocationUnavailable is returned by trip generation when every configured
// location strategy failed to resolve the traveller's origin. It is the only
// provider-related failure that crosses the public boundary; all other
// provider errors degrade into approximate data instead.
// Handlers should map this to HTTP 502 Bad Gateway.
var ErrLocationUnavailable = errors.New("location unavailable")
