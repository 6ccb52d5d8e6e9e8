package advance

import (
	"errors"
	"fmt"
)

var (
	ErrAdvanceNotFound   = errors.New("salary advance not found")
	ErrInvalidTransition = errors.New("invalid advance status transition")
	ErrDuplicateCommit   = errors.New("repayment already committed for this period")
	ErrNothingDue        = errors.New("no repayment due for this advance")
	ErrRepaymentNotFound = errors.New("repayment not found")
	ErrExcessiveCommit   = errors.New("commit amount exceeds remaining balance")
)

// TransitionError reports a lifecycle call made against the wrong status.
type TransitionError struct {
	AdvanceID string
	Expected  Status
	Actual    Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("advance %s: expected status %q, got %q", e.AdvanceID, e.Expected, e.Actual)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// CommitConflictError identifies the (advance, period) pair that was
// already committed.
type CommitConflictError struct {
	AdvanceID string
	PeriodID  string
}

func (e *CommitConflictError) Error() string {
	return fmt.Sprintf("advance %s already committed for period %s", e.AdvanceID, e.PeriodID)
}

func (e *CommitConflictError) Unwrap() error { return ErrDuplicateCommit }
