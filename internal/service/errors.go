// Package service provides business logic for the application.
package service

import (
	"errors"
)

// Service errors.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrUserNotFound           = errors.New("user not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrEmailTaken             = errors.New("email already in use")
)

// ValidationError reports malformed or missing input. Message is safe to
// show to clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// errValueTooLong covers a column narrower than the checks in checkLength.
var errValueTooLong = invalid("Input value is too long")

// ConflictError reports a write rejected because of existing data.
// It matches ErrEmailTaken with errors.Is.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Unwrap returns ErrEmailTaken, the only conflict the services raise.
func (e *ConflictError) Unwrap() error {
	return ErrEmailTaken
}
