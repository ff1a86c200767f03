package forms

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyActive is returned by Start when a non-complete session
	// already exists for the (user, form) key and resume was not requested.
	ErrAlreadyActive = errors.New("forms: session already active")

	// ErrNotImplemented marks a storage backend operation that is not
	// supported. Callers should pick a different backend, not retry.
	ErrNotImplemented = errors.New("forms: storage operation not implemented")
)

// Hook identifiers used in HookError.
const (
	HookOnEnter      = "on_enter"
	HookOnExit       = "on_exit"
	HookOnStepChange = "on_step_change"
	HookOnCancel     = "on_cancel"
)

// HookError reports a lifecycle hook that failed. The transition that
// triggered the hook is aborted and nothing is persisted.
type HookError struct {
	Hook string
	Step string
	Err  error
}

func (e *HookError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("forms: %s hook failed on step %s: %v", e.Hook, e.Step, e.Err)
	}
	return fmt.Sprintf("forms: %s hook failed: %v", e.Hook, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// InvariantError reports a broken form-definition or session invariant,
// e.g. a duplicate step id or an out-of-bounds step index on resume. It is
// fatal and never silently corrected.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "forms: invariant violation: " + e.Msg
}

func invariant(format string, args ...any) *InvariantError {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}
