package period

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollPeriod - one payroll cycle moving through the approval workflow
type PayrollPeriod struct {
	ID            string
	Name          string
	Month         int
	Year          int
	StartDate     time.Time
	EndDate       time.Time
	PaymentDate   time.Time
	Status        Status
	EmployeeCount int
	TotalAmount   decimal.Decimal // cached sum of entry net salaries, set on Complete
	ApprovedBy    *string
	ApprovedAt    *time.Time
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Locked reports whether the period refuses all further mutation.
func (p *PayrollPeriod) Locked() bool {
	return p.Status == StatusLocked
}

// EntryStatus enum
type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "draft"
	EntryStatusFinalized EntryStatus = "finalized"
)

// PayrollEntry - one employee's earnings and deductions within a period.
// Gross/total/net are derived: Recalculate keeps them consistent with the
// component fields.
type PayrollEntry struct {
	ID         string
	PeriodID   string
	EmployeeID string

	// Earnings
	BasicSalary   decimal.Decimal
	Allowances    decimal.Decimal
	OvertimePay   decimal.Decimal
	OtherEarnings decimal.Decimal

	// Deductions
	Tax              decimal.Decimal
	AdvanceDeduction decimal.Decimal
	LoanDeduction    decimal.Decimal
	AbsenceDeduction decimal.Decimal
	OtherDeductions  decimal.Decimal

	// Derived
	GrossSalary     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal

	PaymentMethod string
	BankName      *string
	BankAccount   *string

	Status    EntryStatus
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recalculate refreshes the derived totals from the component fields.
func (e *PayrollEntry) Recalculate() {
	e.GrossSalary = e.BasicSalary.
		Add(e.Allowances).
		Add(e.OvertimePay).
		Add(e.OtherEarnings)
	e.TotalDeductions = e.Tax.
		Add(e.AdvanceDeduction).
		Add(e.LoanDeduction).
		Add(e.AbsenceDeduction).
		Add(e.OtherDeductions)
	e.NetSalary = e.GrossSalary.Sub(e.TotalDeductions)
}
