package service

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError carries a user-facing message and matches ErrInvalidInput
// under errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return ErrInvalidInput.Error() + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}
