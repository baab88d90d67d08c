package services

import (
	"errors"

	"github.com/justsurfingit/job-application-tracker/internal/validation"
)

// ErrNotFound covers both "no such record" and "record belongs to someone
// else". Collapsing the two keeps cross-owner probing from learning whether
// an id exists.
var ErrNotFound = errors.New("application not found")

// ValidationError carries every offending field from a rejected payload.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
