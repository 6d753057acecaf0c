// Package apperror defines the application's error taxonomy.
//
// Each error class is a sentinel (ErrNotFound, ErrConflict, ...) wrapped in
// an *AppError carrying the human-readable message. Services return these;
// the handler layer maps each class to an HTTP status with errors.Is.
// The classes themselves know nothing about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotConfigured = errors.New("not configured")
	ErrExternalAuth  = errors.New("external auth failure")
)

type AppError struct {
	Err     error  // sentinel class, matched with errors.Is
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, key string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s already exists with %s", resource, key),
	}
}

// Unauthorized returns an AppError for failed authentication.
// HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// NotConfigured returns an AppError for a feature whose credentials are
// missing from the environment (e.g. Google OAuth without a client id).
func NotConfigured(feature string) *AppError {
	return &AppError{
		Err:     ErrNotConfigured,
		Message: fmt.Sprintf("%s is not configured", feature),
	}
}

// ExternalAuth returns an AppError for a failed call to the OAuth provider
// (code exchange or profile fetch).
func ExternalAuth(message string) *AppError {
	return &AppError{
		Err:     ErrExternalAuth,
		Message: message,
	}
}
