package models

import (
	"errors"
	"fmt"
)

// Provider error taxonomy. Callers map ErrNotConfigured and ErrNoData to a
// normal empty result; transient failures are retried once at the adapter
// boundary; the rest surface as-is.
var (
	ErrNotConfigured = errors.New("provider not configured")
	ErrNoData        = errors.New("no data for symbol")
	ErrRateLimited   = errors.New("provider rate limit exceeded")
	ErrForbidden     = errors.New("provider refused request")
	ErrMalformed     = errors.New("malformed provider response")
)

// Domain errors.
var (
	ErrNotFound           = errors.New("not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionExpired     = errors.New("session expired or unknown")
	ErrPortfolioLimit     = errors.New("portfolio limit reached")
	ErrLastPortfolio      = errors.New("cannot delete the only portfolio")
)

// ValidationError reports a rejected input with a field and reason.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
