package loan

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
	StatusActive    Status = "active"
	StatusCompleted Status = "completed" // terminal
	StatusDefaulted Status = "defaulted" // declared externally, never derived
)

// EmployeeLoan - an amortized employee loan.
//
// TotalPayable is principal plus scheduled interest, fixed at disbursement;
// RemainingAmount is TotalPayable minus PaidAmount and reaches exactly zero
// when InstallmentsPaid hits Tenure (the final installment absorbs all
// rounding remainders).
type EmployeeLoan struct {
	ID               string
	EmployeeID       string
	LoanType         string
	RequestedAmount  decimal.Decimal
	ApprovedAmount   decimal.Decimal
	InterestRate     decimal.Decimal // annual percentage
	Tenure           int             // months
	MonthlyDeduction decimal.Decimal // EMI, set at disbursement
	TotalPayable     decimal.Decimal
	PaidAmount       decimal.Decimal
	RemainingAmount  decimal.Decimal
	InstallmentsPaid int
	GuarantorName    *string
	GuarantorPhone   *string
	Reason           *string
	Status           Status
	ApprovedBy       *string
	ApprovedAt       *time.Time
	RejectionReason  *string
	DisbursedAt      *time.Time
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Repayment - one committed loan installment, tied to exactly one payroll
// entry. At most one row may exist per (loan, period).
type Repayment struct {
	ID            string
	LoanID        string
	PeriodID      string
	EmployeeID    string
	EntryID       string
	InstallmentNo int
	Amount        decimal.Decimal
	CreatedAt     time.Time
}
