package period

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrPeriodNotFound         = errors.New("payroll period not found")
	ErrEntryNotFound          = errors.New("payroll entry not found")
	ErrPeriodExists           = errors.New("payroll period already exists for this month")
	ErrInvalidTransition      = errors.New("invalid workflow transition")
	ErrPeriodLocked           = errors.New("payroll period is locked")
	ErrIncompleteData         = errors.New("incomplete payroll data")
	ErrReconciliationMismatch = errors.New("deduction totals do not match ledger commits")
	ErrNegativeNetSalary      = errors.New("net salary would be negative")
)

// TransitionError reports a workflow call made against the wrong status.
type TransitionError struct {
	PeriodID string
	Expected Status
	Actual   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("period %s: expected status %q, got %q", e.PeriodID, e.Expected, e.Actual)
}

func (e *TransitionError) Unwrap() error {
	if e.Actual == StatusLocked {
		return ErrPeriodLocked
	}
	return ErrInvalidTransition
}

// IncompleteDataError names the employee whose master data blocked Process.
type IncompleteDataError struct {
	EmployeeID string
	Reason     string
}

func (e *IncompleteDataError) Error() string {
	return fmt.Sprintf("employee %s: %s", e.EmployeeID, e.Reason)
}

func (e *IncompleteDataError) Unwrap() error { return ErrIncompleteData }

// Mismatch is one reconciliation discrepancy for an entry.
type Mismatch struct {
	EntryID    string          `json:"entry_id"`
	EmployeeID string          `json:"employee_id"`
	Field      string          `json:"field"` // "advance_deduction" or "loan_deduction"
	EntryValue decimal.Decimal `json:"entry_value"`
	LedgerSum  decimal.Decimal `json:"ledger_sum"`
}

// ReconciliationError fails Disburse when the checker finds mismatches.
type ReconciliationError struct {
	PeriodID   string
	Mismatches []Mismatch
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("period %s: %d reconciliation mismatch(es)", e.PeriodID, len(e.Mismatches))
}

func (e *ReconciliationError) Unwrap() error { return ErrReconciliationMismatch }
