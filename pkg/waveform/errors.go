package waveform

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNotFound indicates a read-modify-write target entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrWriteDenied indicates the ledger explicitly rejected a submitted write
	ErrWriteDenied = errors.New("write denied by ledger")

	// ErrMissingAuth indicates an operation requires an auth capability and none was provided
	ErrMissingAuth = errors.New("auth service is required")
)

// ValidationError reports a malformed or missing request field. It is always
// raised before any network call is made.
type ValidationError struct {
	Op     string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Op, e.Field, e.Reason)
}

// SerializationError reports metadata that could not be canonicalized.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("metadata is not serializable: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// UploadError reports a storage upload that failed after the retry budget
// was exhausted.
type UploadError struct {
	Template string
	Attempts int
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload (template %s) failed after %d attempts: %v", e.Template, e.Attempts, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// SigningError reports an auth capability that could not produce a signature.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("failed to sign write payload: %v", e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// SubmissionError reports a write the ledger rejected at submit time. The
// write is never retried automatically: it may already be committed, so a
// blind resubmit is not safe.
type SubmissionError struct {
	EntityType EntityType
	Action     Action
	Err        error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("ledger rejected %s %s: %v", e.Action, e.EntityType, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// IndexOutOfRangeError reports a structural playlist edit at an index that
// does not exist.
type IndexOutOfRangeError struct {
	Index  int
	Length int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("no track exists at index %d (playlist has %d tracks)", e.Index, e.Length)
}
