// Package apperror defines the error kinds the core can return.
//
// Every failure that leaves a service is exactly one of these kinds. Handlers
// use errors.Is against the sentinels to pick an HTTP status, and read the
// AppError fields to build the response body.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrStoreFailure = errors.New("store failure")
	ErrInternal     = errors.New("internal error")
)

type AppError struct {
	Err       error  // sentinel kind
	Message   string // Human-readable error message
	Field     string // Optional: field causing the error
	Code      string // Optional: underlying store error code
	Retryable bool   // true when the caller may safely retry
	cause     error
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes both the sentinel kind and the underlying cause, so
// errors.Is matches the kind and errors.As can still reach the store error.
func (e *AppError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.cause}
}

// Fields returns the per-field message map sent to clients, or nil when the
// error isn't tied to a single input.
func (e *AppError) Fields() map[string]string {
	if e.Field == "" {
		return nil
	}
	return map[string]string{e.Field: e.Message}
}

func NotFound(field, message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
		Field:   field,
	}
}

func BadRequest(field, message string) *AppError {
	return &AppError{
		Err:     ErrBadRequest,
		Message: message,
		Field:   field,
	}
}

// Unauthorized is produced by the identity layer; handlers map it to 403.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// StoreFailure wraps a backend error. code is the store's machine-readable
// error code and is surfaced to clients for diagnostics.
func StoreFailure(code string, retryable bool, cause error) *AppError {
	return &AppError{
		Err:       ErrStoreFailure,
		Message:   fmt.Sprintf("store operation failed (%s)", code),
		Code:      code,
		Retryable: retryable,
		cause:     cause,
	}
}

// Internal reports a broken invariant, e.g. an authenticated caller without
// a profile record.
func Internal(field, message string) *AppError {
	return &AppError{
		Err:     ErrInternal,
		Message: message,
		Field:   field,
	}
}
