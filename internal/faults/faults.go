// Package faults defines the two top-level failure kinds of the import
// pipeline. A validation fault means the input is absent, blank, malformed,
// or cannot be reconciled consistently; the caller can correct and resubmit.
// A fatal fault is an I/O or parse fault that prevents further progress on
// the invocation and is not attributable to a correctable input defect.
package faults

import (
	"errors"
	"fmt"
)

// ValidationError reports a correctable defect in the import input.
type ValidationError struct {
	// Kind names the entity kind or bundle the defect belongs to, e.g.
	// "stage", "container", or a match name for bundle-scoped failures.
	Kind   string
	Detail string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed for %s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Kind, e.Detail)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validation constructs a ValidationError.
func Validation(kind, detail string) *ValidationError {
	return &ValidationError{Kind: kind, Detail: detail}
}

// Validationf constructs a ValidationError with a formatted detail.
func Validationf(kind, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// ValidationWrap constructs a ValidationError wrapping a cause.
func ValidationWrap(kind, detail string, err error) *ValidationError {
	return &ValidationError{Kind: kind, Detail: detail, Err: err}
}

// FatalError reports an unrecoverable I/O or parse fault.
type FatalError struct {
	Detail string
	Err    error
}

func (e *FatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fatal: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("fatal: %s", e.Detail)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Fatal constructs a FatalError wrapping a cause.
func Fatal(detail string, err error) *FatalError {
	return &FatalError{Detail: detail, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsFatal reports whether err is (or wraps) a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
