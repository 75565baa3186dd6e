package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrReportNotFound     = errors.New("report not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrTaskNotCompleted   = errors.New("task is not completed")
	ErrValidation         = errors.New("validation failed")
	ErrDecode             = errors.New("task record could not be decoded")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailTaken         = errors.New("email already registered")
)

// ValidationError reports a command rejected before it reached the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// DecodeError describes a store record that could not become a Task.
type DecodeError struct {
	RecordID string
	Field    string
	Reason   string
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: record %q field %s: %s", ErrDecode.Error(), e.RecordID, e.Field, e.Reason)
}

func (e *DecodeError) Unwrap() error { return ErrDecode }

// StoreError wraps a transport-level failure. It matches both
// ErrStoreUnavailable and the underlying cause.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrStoreUnavailable.Error(), e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", ErrStoreUnavailable.Error(), e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStoreUnavailable}
	}
	return []error{ErrStoreUnavailable, e.Err}
}

// Unavailable wraps err as a StoreError unless it already carries a domain
// meaning (not found, decode) that callers need to see unchanged.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrReportNotFound) ||
		errors.Is(err, ErrDecode) ||
		errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
