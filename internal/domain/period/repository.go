package period

import "context"

// Filter narrows period listings.
type Filter struct {
	Status *Status
	Month  *int
	Year   *int
}

// PeriodRepository is the ledger-store contract for periods and their
// entries. All Update methods are optimistic: they match on the stored
// version and return ledger.ErrConcurrentModification when it moved.
type PeriodRepository interface {
	CreatePeriod(ctx context.Context, p PayrollPeriod) (PayrollPeriod, error)
	GetPeriodByID(ctx context.Context, id string) (PayrollPeriod, error)
	GetPeriodByMonthYear(ctx context.Context, month, year int) (PayrollPeriod, error)
	ListPeriods(ctx context.Context, filter Filter) ([]PayrollPeriod, error)
	UpdatePeriod(ctx context.Context, p PayrollPeriod) (PayrollPeriod, error)

	CreateEntry(ctx context.Context, e PayrollEntry) (PayrollEntry, error)
	GetEntryByID(ctx context.Context, id string) (PayrollEntry, error)
	GetEntryByEmployeePeriod(ctx context.Context, employeeID, periodID string) (PayrollEntry, error)
	ListEntriesByPeriod(ctx context.Context, periodID string) ([]PayrollEntry, error)
	UpdateEntry(ctx context.Context, e PayrollEntry) (PayrollEntry, error)
	DeleteEntriesByPeriod(ctx context.Context, periodID string) error
}
