package models

import "errors"

var (
	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means the id did not resolve to a profile.
	ErrNotFound = errors.New("Profile not found")
	// ErrStorage wraps read and write failures of the backing document.
	ErrStorage = errors.New("storage failure")
)

var (
	ErrMissingFields  = &ValidationError{Message: "Missing required fields"}
	ErrDuplicateEmail = &ValidationError{Message: "Email already exists"}
)

// ValidationError is a client mistake surfaced as 400 with Message as body.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
