package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a missing installation, project, or register entry.
// Wrap with context: fmt.Errorf("installation %d: %w", id, ErrNotFound).
var ErrNotFound = errors.New("not found")

// ValidationError reports a malformed identifier or request body.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// AuthError reports a failed signature or missing credential.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string { return e.Msg }

// PlanGateError reports an operation that requires the Pro plan.
type PlanGateError struct {
	Feature string
}

func (e *PlanGateError) Error() string {
	return e.Feature + " requires the Pro plan"
}

// UpstreamError wraps a failed call to the project service. Per-item write
// failures are recorded and skipped; a failed initial fetch aborts the pass.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
