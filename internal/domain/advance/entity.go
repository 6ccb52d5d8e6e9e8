package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected" // terminal
	StatusDisbursed Status = "disbursed"
	StatusRepaying  Status = "repaying"
	StatusCompleted Status = "completed" // terminal
)

// RepaymentMethod enum
type RepaymentMethod string

const (
	RepaymentSingle       RepaymentMethod = "single"
	RepaymentInstallments RepaymentMethod = "installments"
)

// SalaryAdvance - an employee salary advance and its repayment ledger
// state. RemainingAmount is always ApprovedAmount minus PaidAmount;
// PaidAmount only moves through recorded repayments.
type SalaryAdvance struct {
	ID              string
	EmployeeID      string
	RequestedAmount decimal.Decimal
	ApprovedAmount  decimal.Decimal
	RepaymentMethod RepaymentMethod
	Installments    int
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	Reason          *string
	Status          Status
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	DisbursedAt     *time.Time
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Repayment - one committed deduction against an advance, tied to exactly
// one payroll entry. At most one row may exist per (advance, period).
type Repayment struct {
	ID         string
	AdvanceID  string
	PeriodID   string
	EmployeeID string
	EntryID    string
	Amount     decimal.Decimal
	CreatedAt  time.Time
}
