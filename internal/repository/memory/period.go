package memory

import (
	"context"
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/period"
)

type periodRepository struct {
	store *Store
}

func NewPeriodRepository(store *Store) period.PeriodRepository {
	return &periodRepository{store: store}
}

func (r *periodRepository) CreatePeriod(ctx context.Context, p period.PayrollPeriod) (period.PayrollPeriod, error) {
	defer r.store.enter(ctx)()

	for _, existing := range r.store.periods {
		if existing.Month == p.Month && existing.Year == p.Year {
			return period.PayrollPeriod{}, period.ErrPeriodExists
		}
	}

	now := time.Now()
	p.ID = newID(p.ID)
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now
	r.store.periods[p.ID] = p
	return p, nil
}

func (r *periodRepository) GetPeriodByID(ctx context.Context, id string) (period.PayrollPeriod, error) {
	defer r.store.enter(ctx)()

	p, ok := r.store.periods[id]
	if !ok {
		return period.PayrollPeriod{}, period.ErrPeriodNotFound
	}
	return p, nil
}

func (r *periodRepository) GetPeriodByMonthYear(ctx context.Context, month, year int) (period.PayrollPeriod, error) {
	defer r.store.enter(ctx)()

	for _, p := range r.store.periods {
		if p.Month == month && p.Year == year {
			return p, nil
		}
	}
	return period.PayrollPeriod{}, period.ErrPeriodNotFound
}

func (r *periodRepository) ListPeriods(ctx context.Context, filter period.Filter) ([]period.PayrollPeriod, error) {
	defer r.store.enter(ctx)()

	var result []period.PayrollPeriod
	for _, p := range r.store.periods {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.Month != nil && p.Month != *filter.Month {
			continue
		}
		if filter.Year != nil && p.Year != *filter.Year {
			continue
		}
		result = append(result, p)
	}
	sortByCreated(result,
		func(p period.PayrollPeriod) time.Time { return p.CreatedAt },
		func(p period.PayrollPeriod) string { return p.ID })
	return result, nil
}

func (r *periodRepository) UpdatePeriod(ctx context.Context, p period.PayrollPeriod) (period.PayrollPeriod, error) {
	defer r.store.enter(ctx)()

	stored, ok := r.store.periods[p.ID]
	if !ok {
		return period.PayrollPeriod{}, period.ErrPeriodNotFound
	}
	if stored.Version != p.Version {
		return period.PayrollPeriod{}, &ledger.VersionConflictError{Entity: "payroll_period", ID: p.ID}
	}
	p.Version++
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = time.Now()
	r.store.periods[p.ID] = p
	return p, nil
}

func (r *periodRepository) CreateEntry(ctx context.Context, e period.PayrollEntry) (period.PayrollEntry, error) {
	defer r.store.enter(ctx)()

	now := time.Now()
	e.ID = newID(e.ID)
	e.Version = 1
	e.CreatedAt = now
	e.UpdatedAt = now
	r.store.entries[e.ID] = e
	return e, nil
}

func (r *periodRepository) GetEntryByID(ctx context.Context, id string) (period.PayrollEntry, error) {
	defer r.store.enter(ctx)()

	e, ok := r.store.entries[id]
	if !ok {
		return period.PayrollEntry{}, period.ErrEntryNotFound
	}
	return e, nil
}

func (r *periodRepository) GetEntryByEmployeePeriod(ctx context.Context, employeeID, periodID string) (period.PayrollEntry, error) {
	defer r.store.enter(ctx)()

	for _, e := range r.store.entries {
		if e.EmployeeID == employeeID && e.PeriodID == periodID {
			return e, nil
		}
	}
	return period.PayrollEntry{}, period.ErrEntryNotFound
}

func (r *periodRepository) ListEntriesByPeriod(ctx context.Context, periodID string) ([]period.PayrollEntry, error) {
	defer r.store.enter(ctx)()

	var result []period.PayrollEntry
	for _, e := range r.store.entries {
		if e.PeriodID == periodID {
			result = append(result, e)
		}
	}
	sortByCreated(result,
		func(e period.PayrollEntry) time.Time { return e.CreatedAt },
		func(e period.PayrollEntry) string { return e.ID })
	return result, nil
}

func (r *periodRepository) UpdateEntry(ctx context.Context, e period.PayrollEntry) (period.PayrollEntry, error) {
	defer r.store.enter(ctx)()

	stored, ok := r.store.entries[e.ID]
	if !ok {
		return period.PayrollEntry{}, period.ErrEntryNotFound
	}
	if stored.Version != e.Version {
		return period.PayrollEntry{}, &ledger.VersionConflictError{Entity: "payroll_entry", ID: e.ID}
	}
	e.Version++
	e.CreatedAt = stored.CreatedAt
	e.UpdatedAt = time.Now()
	r.store.entries[e.ID] = e
	return e, nil
}

func (r *periodRepository) DeleteEntriesByPeriod(ctx context.Context, periodID string) error {
	defer r.store.enter(ctx)()

	for id, e := range r.store.entries {
		if e.PeriodID == periodID {
			delete(r.store.entries, id)
		}
	}
	return nil
}
