package overtime

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("overtime record not found")
	ErrInvalidTransition = errors.New("invalid overtime status transition")
	ErrAlreadyProcessed  = errors.New("overtime record already pulled into a payroll entry")
)

// TransitionError reports an approve/reject call made against the wrong
// status.
type TransitionError struct {
	RecordID string
	Expected Status
	Actual   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("overtime record %s: expected status %q, got %q", e.RecordID, e.Expected, e.Actual)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
