package services

import "errors"

var (
	// ErrInvalidInput marks errors caused by a bad request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks lookups whose identifier resolved to nothing.
	ErrNotFound = errors.New("not found")
)

// ValidationError carries a message that is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func invalidInput(msg string) error {
	return &ValidationError{Message: msg}
}
