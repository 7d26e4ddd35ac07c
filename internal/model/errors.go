package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by scopes and stores when a key is absent.
	ErrNotFound = errors.New("not found")
	// ErrTokenInvalid means the stored token was rejected or could not be verified.
	ErrTokenInvalid = errors.New("session token is invalid")
	// ErrBusy is returned while another submit is in flight.
	ErrBusy = errors.New("request already in progress")
	// ErrEmailTaken is returned by the demo backend on duplicate signup.
	ErrEmailTaken = errors.New("email is already taken")
)

// ValidationError is an input problem detected before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// BackendRejection is a well-formed backend answer with success=false.
type BackendRejection struct {
	Message string
}

func (e *BackendRejection) Error() string {
	return fmt.Sprintf("backend rejected request: %s", e.Message)
}

// TransportError means the request could not complete.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
