package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an action could not be applied.
type ErrorKind string

const (
	KindValidation   ErrorKind = "ValidationError"
	KindPrecondition ErrorKind = "PreconditionFailed"
	KindCapViolation ErrorKind = "CapViolation"
	KindConflict     ErrorKind = "ConflictWithServer"
	KindUnavailable  ErrorKind = "BackendUnavailable"
)

// CapError carries a kind and a reason that can be shown to the user as-is.
type CapError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *CapError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *CapError) Unwrap() error {
	return e.Err
}

// Is matches any CapError of the same kind, so errors.Is(err, ErrPrecondition) works.
func (e *CapError) Is(target error) bool {
	t, ok := target.(*CapError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Reason == "" || t.Reason == e.Reason)
}

var (
	ErrValidation   = &CapError{Kind: KindValidation}
	ErrPrecondition = &CapError{Kind: KindPrecondition}
	ErrConflict     = &CapError{Kind: KindConflict}
	ErrUnavailable  = &CapError{Kind: KindUnavailable}
)

func Validationf(format string, args ...interface{}) error {
	return &CapError{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

func Preconditionf(format string, args ...interface{}) error {
	return &CapError{Kind: KindPrecondition, Reason: fmt.Sprintf(format, args...)}
}

func Conflict(reason string, err error) error {
	return &CapError{Kind: KindConflict, Reason: reason, Err: err}
}

func Unavailable(reason string, err error) error {
	return &CapError{Kind: KindUnavailable, Reason: reason, Err: err}
}

// KindOf returns the kind of the first CapError in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var ce *CapError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// ReasonOf returns a user-facing reason for err.
func ReasonOf(err error) string {
	var ce *CapError
	if errors.As(err, &ce) {
		return ce.Reason
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
