// Package apperrors defines the error taxonomy shared by the session
// store, the list controller and the catalog client: validation errors
// caught before a request is sent, authentication failures, transport
// failures and non-2xx server responses.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports a missing or malformed required field,
// detected client-side before any request is sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return fmt.Sprintf("validation failed: %s %s", field, msg)
	}
	return "validation failed"
}

// AuthenticationError reports bad credentials or an expired/invalid token
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "authentication failed"
}

// ConflictError reports a server-side uniqueness conflict, typically an
// already-registered email on signup.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict"
}

// NetworkError reports a transport failure with no server response
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError reports a non-2xx response that carried (or lacked) a
// message payload.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error (status %d)", e.StatusCode)
}

// FromStatus maps a non-2xx response to the taxonomy
func FromStatus(status int, message string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthenticationError{Message: message}
	case http.StatusConflict:
		return &ConflictError{Message: message}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if message == "" {
			message = "invalid request"
		}
		return &ValidationError{Fields: map[string]string{"request": message}}
	default:
		return &ServerError{StatusCode: status, Message: message}
	}
}

// UserMessage returns the text to surface in a notification: the
// server-provided message when present, else a generic fallback.
func UserMessage(err error, fallback string) string {
	var authErr *AuthenticationError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) && conflictErr.Message != "" {
		return conflictErr.Message
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}
	return fallback
}

// IsAuthFailure reports whether the error means the token is no longer usable
func IsAuthFailure(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}
