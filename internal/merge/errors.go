package merge

import (
	"errors"
	"fmt"
)

// MergeError describes a failure local to one property or the whole run.
//
// Property-level errors (unresolved binding, sample quota, no contributors)
// are recorded on the MergeResult and the property is skipped. A cancelled
// run is the only MergeError returned from Merge.
type MergeError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Binding identifies the affected property, if any.
	Binding string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes merge errors.
type ErrorCode string

const (
	// ErrCodeUnresolvedBinding indicates a bone path the resolver cannot map.
	ErrCodeUnresolvedBinding ErrorCode = "UNRESOLVED_BINDING"

	// ErrCodeQuotaExceeded indicates a property's sample grid is too large.
	ErrCodeQuotaExceeded ErrorCode = "SAMPLE_QUOTA_EXCEEDED"

	// ErrCodeNoContributors indicates no clip covered any grid time.
	ErrCodeNoContributors ErrorCode = "NO_CONTRIBUTORS"

	// ErrCodeCancelled indicates the caller's context ended the run.
	ErrCodeCancelled ErrorCode = "CANCELLED"
)

// Error implements the error interface.
func (e *MergeError) Error() string {
	if e.Binding != "" {
		return fmt.Sprintf("%s: %s (binding=%s)", e.Code, e.Message, e.Binding)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *MergeError) Unwrap() error {
	return e.Err
}

// IsQuotaError returns true if the error is a sample quota error.
// Uses errors.As to handle wrapped errors.
func IsQuotaError(err error) bool {
	var me *MergeError
	return errors.As(err, &me) && me.Code == ErrCodeQuotaExceeded
}

// IsUnresolvedError returns true if the error is an unresolved binding error.
func IsUnresolvedError(err error) bool {
	var me *MergeError
	return errors.As(err, &me) && me.Code == ErrCodeUnresolvedBinding
}

// IsCancelled returns true if the error is a cancelled run.
func IsCancelled(err error) bool {
	var me *MergeError
	return errors.As(err, &me) && me.Code == ErrCodeCancelled
}

// NewUnresolvedError creates a MergeError for an unmappable bone path.
func NewUnresolvedError(binding, reason string) *MergeError {
	return &MergeError{
		Code:    ErrCodeUnresolvedBinding,
		Message: reason,
		Binding: binding,
	}
}

// NewNoContributorsError creates a MergeError for a property no clip covers.
func NewNoContributorsError(binding string) *MergeError {
	return &MergeError{
		Code:    ErrCodeNoContributors,
		Message: "no clip contributes a sample on the frame grid",
		Binding: binding,
	}
}

// NewCancelledError wraps the context error that stopped a run.
func NewCancelledError(cause error) *MergeError {
	return &MergeError{
		Code:    ErrCodeCancelled,
		Message: "merge cancelled",
		Err:     cause,
	}
}
