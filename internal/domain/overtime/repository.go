package overtime

import (
	"context"
	"time"
)

// Filter narrows overtime listings.
type Filter struct {
	EmployeeID *string
	Status     *Status
}

// OvertimeRepository is the ledger-store contract for overtime records.
// Update is version-checked.
type OvertimeRepository interface {
	Create(ctx context.Context, rec OvertimeRecord) (OvertimeRecord, error)
	GetByID(ctx context.Context, id string) (OvertimeRecord, error)
	List(ctx context.Context, filter Filter) ([]OvertimeRecord, error)
	ListApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]OvertimeRecord, error)
	Update(ctx context.Context, rec OvertimeRecord) (OvertimeRecord, error)
}
