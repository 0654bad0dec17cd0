package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports a missing or malformed field caught before any
// request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Required returns a ValidationError for an empty required field.
func Required(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "is required"}
}

// AuthenticationError means the backend rejected the credentials.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Message
}

// InvalidInviteCodeError means no organization owns the given code.
type InvalidInviteCodeError struct {
	Code string
}

func (e *InvalidInviteCodeError) Error() string {
	return fmt.Sprintf("invalid organization code %q", e.Code)
}

// EmailAlreadyRegisteredError is returned when registering an email that
// already has an account.
type EmailAlreadyRegisteredError struct {
	Email string
}

func (e *EmailAlreadyRegisteredError) Error() string {
	return fmt.Sprintf("email %q is already registered", e.Email)
}

// MalformedResponseError means the backend answered with a shape the client
// cannot use.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// RequestFailedError covers transport failures (StatusCode 0) and non-2xx
// responses.
type RequestFailedError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestFailedError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

func (e *RequestFailedError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.StatusCode
	}
	return 0
}
