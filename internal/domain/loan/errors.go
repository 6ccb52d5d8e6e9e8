package loan

import (
	"errors"
	"fmt"
)

var (
	ErrLoanNotFound      = errors.New("employee loan not found")
	ErrInvalidTransition = errors.New("invalid loan status transition")
	ErrDuplicateCommit   = errors.New("installment already committed for this period")
	ErrNothingDue        = errors.New("no installment due for this loan")
	ErrRepaymentNotFound = errors.New("repayment not found")
	ErrExcessiveCommit   = errors.New("commit amount exceeds remaining balance")
)

// TransitionError reports a lifecycle call made against the wrong status.
type TransitionError struct {
	LoanID   string
	Expected Status
	Actual   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("loan %s: expected status %q, got %q", e.LoanID, e.Expected, e.Actual)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// CommitConflictError identifies the (loan, period) pair that was already
// committed.
type CommitConflictError struct {
	LoanID   string
	PeriodID string
}

func (e *CommitConflictError) Error() string {
	return fmt.Sprintf("loan %s already committed for period %s", e.LoanID, e.PeriodID)
}

func (e *CommitConflictError) Unwrap() error { return ErrDuplicateCommit }
