package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee - payroll master data for one employee.
type Employee struct {
	ID            string
	Name          string
	Email         *string
	PaymentMethod string // "bank_transfer" or "cash"
	BankName      *string
	BankAccount   *string
	Active        bool
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SalaryStructure - the active compensation terms Process reads for an
// employee. HourlyRate may be zero, in which case the engine derives one
// from the basic salary.
type SalaryStructure struct {
	ID            string
	EmployeeID    string
	BasicSalary   decimal.Decimal
	Allowances    decimal.Decimal
	HourlyRate    decimal.Decimal
	EffectiveDate time.Time
	Active        bool
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
