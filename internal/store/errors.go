package store

import (
	"errors"
	"fmt"
)

// Code is a machine-readable store error category.
type Code string

const (
	CodeNotFound         Code = "not-found"
	CodeInvalidArgument  Code = "invalid-argument"
	CodeUnavailable      Code = "unavailable"
	CodeDeadlineExceeded Code = "deadline-exceeded"
	CodeCancelled        Code = "cancelled"
	CodeAborted          Code = "aborted"
	CodeInternal         Code = "internal"
)

// Retryable reports whether an operation failing with c may succeed if
// issued again unchanged.
func (c Code) Retryable() bool {
	switch c {
	case CodeUnavailable, CodeDeadlineExceeded, CodeAborted:
		return true
	}
	return false
}

// Error is returned by every Client and Batch method on failure.
type Error struct {
	Code Code
	Op   string // "get", "query", "commit", ...
	Path string // document path or collection, when known
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("store: %s %s: %s: %v", e.Op, e.Path, e.Code, e.Err)
	}
	return fmt.Sprintf("store: %s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the Code from err, or CodeInternal when err is not a
// store error.
func CodeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeInternal
}

// IsNotFound reports whether err is a store not-found error.
func IsNotFound(err error) bool {
	return err != nil && CodeOf(err) == CodeNotFound
}
