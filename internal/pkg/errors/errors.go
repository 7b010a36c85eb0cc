// Package errors provides domain-specific error types for the Arcanum
// operations tracker.
//
// Every error the entity layer reports is recoverable by the caller: the
// taxonomy distinguishes validation failures (fix the input), reference
// failures (create the parent first), and not-found lookups. Nothing here is
// ever fatal to the hosting process.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an AppError for programmatic handling.
type Kind string

const (
	// KindValidation is a field-level constraint violation: length, numeric
	// range, enum membership, type mismatch.
	KindValidation Kind = "validation"

	// KindReference is a relationship target that does not resolve to an
	// existing record (foreign key violation equivalent).
	KindReference Kind = "reference"

	// KindNotFound is a read/update/delete targeting a non-existent id.
	KindNotFound Kind = "not_found"

	// KindConflict is a uniqueness collision or a delete blocked by a
	// referencing record.
	KindConflict Kind = "conflict"

	// KindInternal is an unexpected storage or encoding fault.
	KindInternal Kind = "internal"
)

// Sentinel errors for errors.Is checks across layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrReference  = errors.New("reference not found")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")
)

// AppError is a structured application error with a machine-readable code.
type AppError struct {
	// Code is a machine-readable error code (e.g., "GLYPH_NOT_FOUND").
	Code string `json:"code"`

	// Kind classifies the error for retry/correction decisions.
	Kind Kind `json:"kind"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// FieldErrors carries field-level validation details.
	FieldErrors []FieldError `json:"field_errors,omitempty"`

	// Err is the wrapped underlying error.
	Err error `json:"-"`
}

// FieldError describes a single field-level failure with enough structure
// for the caller to correct and retry.
type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Value      any    `json:"value,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error, or the kind sentinel, for errors.Is.
func (e *AppError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.sentinel()
}

// Is reports whether target matches this error's kind sentinel.
func (e *AppError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *AppError) sentinel() error {
	switch e.Kind {
	case KindValidation:
		return ErrValidation
	case KindReference:
		return ErrReference
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	default:
		return ErrInternal
	}
}

// New creates a new AppError.
func New(kind Kind, code, message string) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message}
}

// Wrap wraps an existing error into an AppError.
func Wrap(err error, kind Kind, code, message string) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message, Err: err}
}

// WithFieldErrors attaches field-level errors to the AppError.
func (e *AppError) WithFieldErrors(fieldErrors []FieldError) *AppError {
	if e == nil || len(fieldErrors) == 0 {
		return e
	}
	e.FieldErrors = fieldErrors
	return e
}

// Common error constructors.

// Validation creates a field-constraint violation error.
func Validation(code, message string) *AppError {
	return New(KindValidation, code, message)
}

// Reference creates a dangling-relationship error.
func Reference(code, message string) *AppError {
	return New(KindReference, code, message)
}

// NotFound creates a missing-record error.
func NotFound(code, message string) *AppError {
	return New(KindNotFound, code, message)
}

// Conflict creates a uniqueness/blocked-delete error.
func Conflict(code, message string) *AppError {
	return New(KindConflict, code, message)
}

// Internal creates an unexpected-fault error.
func Internal(code, message string) *AppError {
	return New(KindInternal, code, message)
}

// IsAppError checks if an error is an AppError and returns it.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
