package overtime

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusProcessed Status = "processed" // consumed by exactly one payroll entry
)

// Type enum with a fixed pay multiplier per kind of overtime.
type Type string

const (
	TypeWeekday Type = "weekday"
	TypeWeekend Type = "weekend"
	TypeHoliday Type = "holiday"
)

var multipliers = map[Type]decimal.Decimal{
	TypeWeekday: decimal.NewFromFloat(1.5),
	TypeWeekend: decimal.NewFromFloat(2.0),
	TypeHoliday: decimal.NewFromFloat(2.5),
}

// Multiplier returns the pay multiplier for the overtime type.
func (t Type) Multiplier() (decimal.Decimal, bool) {
	m, ok := multipliers[t]
	return m, ok
}

// OvertimeRecord - one overtime claim. CalculatedAmount is fixed at
// approval time (approved hours x type multiplier x base hourly rate) and
// the record is consumed by at most one payroll entry.
type OvertimeRecord struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	Hours            decimal.Decimal
	OvertimeType     Type
	Rate             decimal.Decimal // multiplier snapshot at approval
	HourlyRate       decimal.Decimal // base hourly rate snapshot at approval
	Status           Status
	ApprovedHours    decimal.Decimal
	CalculatedAmount decimal.Decimal
	ApprovedBy       *string
	ApprovedAt       *time.Time
	ProcessedEntryID *string
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
