package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrUnauthorized is returned when the backend rejects the bearer
	// token (HTTP 401/403). Callers clear the session and all caches.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict is returned when a create hits a duplicate unique
	// field. Surfaced as a field-level form error, not a generic toast.
	ErrConflict = errors.New("duplicate record")

	// ErrUnreachable is returned when the backend cannot be contacted.
	ErrUnreachable = errors.New("backend unreachable")
)

// APIError is the base error for non-2xx responses that are neither
// auth rejections nor conflicts.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Message is the server-provided message, or a generic fallback.
	Message string
}

// Error returns the error message.
func (e *APIError) Error() string {
	return fmt.Sprintf("smartfarmer api [%d]: %s", e.Status, e.Message)
}

// AuthError is returned on HTTP 401/403. The client has already invoked
// its auth-rejection hook by the time callers see this error.
type AuthError struct {
	// Status is 401 or 403.
	Status int
	// Message is the server-provided rejection message.
	Message string
}

// Error returns a human-readable description of the rejection.
func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("authentication rejected (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("authentication rejected (%d)", e.Status)
}

// Is reports whether this error matches ErrUnauthorized.
func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// ConflictError is returned when the backend reports a duplicate unique
// field on create or update. Field names the offending unique index
// when it can be extracted from the message.
type ConflictError struct {
	// Field is the duplicated field, or "" when unknown.
	Field string
	// Message is the raw server message.
	Message string
}

// Error returns a human-readable description of the conflict.
func (e *ConflictError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("duplicate %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("duplicate record: %s", e.Message)
}

// Is reports whether this error matches ErrConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// UnreachableError is returned when the request never produced an HTTP
// response (DNS failure, connection refused, timeout).
type UnreachableError struct {
	// Cause is the underlying transport error.
	Cause error
}

// Error returns a human-readable description of the failure.
func (e *UnreachableError) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Cause)
}

// Unwrap returns the underlying error cause.
func (e *UnreachableError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches ErrUnreachable.
func (e *UnreachableError) Is(target error) bool {
	return target == ErrUnreachable
}
