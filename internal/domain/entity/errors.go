package entity

import (
	"errors"
	"fmt"
)

// Standard domain errors. The API layer maps these to HTTP status codes.
var (
	ErrUnauthorized   = errors.New("invalid authentication token")
	ErrNotFound       = errors.New("the requested artifact was not found")
	ErrNotReady       = errors.New("model not loaded yet")
	ErrBudgetExceeded = errors.New("daily character budget exceeded")
)

// ValidationError names the offending field and the violated constraint.
// It always maps to a client error, never a server error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalidf(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
