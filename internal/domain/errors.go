package domain

import (
	"errors"
	"fmt"
)

// Validation reasons.
const (
	ReasonMissingField = "missing-field"
	ReasonBadURL       = "bad-url"
	ReasonBadEmail     = "bad-email"
	ReasonBadRequest   = "bad-request"
)

// ValidationError is returned before any write when request input is
// unusable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingField:
		return fmt.Sprintf("missing required field: %s", e.Field)
	case ReasonBadURL:
		return "invalid site url"
	case ReasonBadEmail:
		return "invalid email address"
	default:
		if e.Field != "" {
			return fmt.Sprintf("invalid request: %s", e.Field)
		}
		return "invalid request"
	}
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	// ErrNotFound is returned when a submission or site id is unknown.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyReviewed is returned when reviewing a submission that has
	// left pending.
	ErrAlreadyReviewed = errors.New("submission already reviewed")

	// ErrInvalidAction is returned for a review action other than approve
	// or reject.
	ErrInvalidAction = errors.New("invalid review action")

	// ErrUnauthorized is returned when the bearer token is missing or does
	// not match the stored admin token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned by admin login on a bad
	// username/password pair.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
