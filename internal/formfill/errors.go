package formfill

import (
	"errors"
	"fmt"
)

// Common form filling errors
var (
	// ErrInvalidPDF is returned when the source file is not a valid PDF
	// document or cannot be rasterized.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrNoPages is returned when the source document contains no pages.
	ErrNoPages = errors.New("document contains no pages")

	// ErrNoDocument is returned when an operation requires a bound source
	// document and the session has none.
	ErrNoDocument = errors.New("no source document bound to session")

	// ErrNoPlacements is returned when writing output is attempted with
	// an empty placement list.
	ErrNoPlacements = errors.New("no placements to write")

	// ErrEmptyReply is returned when the model reply contains no choices.
	ErrEmptyReply = errors.New("model returned an empty reply")

	// ErrUnparsableReply is returned when no JSON placement array can be
	// extracted from the model reply.
	ErrUnparsableReply = errors.New("no placement data found in model reply")
)

// FillError wraps errors with additional context about form filling failures.
type FillError struct {
	// Op is the operation that failed (e.g., "AnalyzeForm", "WritePDF").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *FillError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("formfill: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("formfill: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *FillError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *FillError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewFillError creates a new FillError with the specified operation and
// underlying error.
func NewFillError(op string, err error, details string) *FillError {
	return &FillError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapFillError wraps an error as a FillError if it isn't already one.
func WrapFillError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var fillErr *FillError
	if errors.As(err, &fillErr) {
		return err // Already wrapped
	}

	return NewFillError(op, err, details)
}
