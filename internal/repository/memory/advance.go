package memory

import (
	"context"
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/advance"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
)

type advanceRepository struct {
	store *Store
}

func NewAdvanceRepository(store *Store) advance.AdvanceRepository {
	return &advanceRepository{store: store}
}

func (r *advanceRepository) Create(ctx context.Context, a advance.SalaryAdvance) (advance.SalaryAdvance, error) {
	defer r.store.enter(ctx)()

	now := time.Now()
	a.ID = newID(a.ID)
	a.Version = 1
	a.CreatedAt = now
	a.UpdatedAt = now
	r.store.advances[a.ID] = a
	return a, nil
}

func (r *advanceRepository) GetByID(ctx context.Context, id string) (advance.SalaryAdvance, error) {
	defer r.store.enter(ctx)()

	a, ok := r.store.advances[id]
	if !ok {
		return advance.SalaryAdvance{}, advance.ErrAdvanceNotFound
	}
	return a, nil
}

func (r *advanceRepository) List(ctx context.Context, filter advance.Filter) ([]advance.SalaryAdvance, error) {
	defer r.store.enter(ctx)()

	var result []advance.SalaryAdvance
	for _, a := range r.store.advances {
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		result = append(result, a)
	}
	sortByCreated(result,
		func(a advance.SalaryAdvance) time.Time { return a.CreatedAt },
		func(a advance.SalaryAdvance) string { return a.ID })
	return result, nil
}

func (r *advanceRepository) ListOpenByEmployee(ctx context.Context, employeeID string) ([]advance.SalaryAdvance, error) {
	defer r.store.enter(ctx)()

	var result []advance.SalaryAdvance
	for _, a := range r.store.advances {
		if a.EmployeeID != employeeID {
			continue
		}
		if a.Status == advance.StatusDisbursed || a.Status == advance.StatusRepaying {
			result = append(result, a)
		}
	}
	sortByCreated(result,
		func(a advance.SalaryAdvance) time.Time { return a.CreatedAt },
		func(a advance.SalaryAdvance) string { return a.ID })
	return result, nil
}

func (r *advanceRepository) Update(ctx context.Context, a advance.SalaryAdvance) (advance.SalaryAdvance, error) {
	defer r.store.enter(ctx)()

	stored, ok := r.store.advances[a.ID]
	if !ok {
		return advance.SalaryAdvance{}, advance.ErrAdvanceNotFound
	}
	if stored.Version != a.Version {
		return advance.SalaryAdvance{}, &ledger.VersionConflictError{Entity: "salary_advance", ID: a.ID}
	}
	a.Version++
	a.CreatedAt = stored.CreatedAt
	a.UpdatedAt = time.Now()
	r.store.advances[a.ID] = a
	return a, nil
}

func (r *advanceRepository) CreateRepayment(ctx context.Context, rep advance.Repayment) (advance.Repayment, error) {
	defer r.store.enter(ctx)()

	key := repaymentKey(rep.AdvanceID, rep.PeriodID)
	if _, exists := r.store.advanceRepaymentKeys[key]; exists {
		return advance.Repayment{}, &advance.CommitConflictError{AdvanceID: rep.AdvanceID, PeriodID: rep.PeriodID}
	}

	rep.ID = newID(rep.ID)
	rep.CreatedAt = time.Now()
	r.store.advanceRepayments[rep.ID] = rep
	r.store.advanceRepaymentKeys[key] = rep.ID
	return rep, nil
}

func (r *advanceRepository) GetRepayment(ctx context.Context, advanceID, periodID string) (advance.Repayment, error) {
	defer r.store.enter(ctx)()

	id, ok := r.store.advanceRepaymentKeys[repaymentKey(advanceID, periodID)]
	if !ok {
		return advance.Repayment{}, advance.ErrRepaymentNotFound
	}
	return r.store.advanceRepayments[id], nil
}

func (r *advanceRepository) ListRepaymentsByAdvance(ctx context.Context, advanceID string) ([]advance.Repayment, error) {
	defer r.store.enter(ctx)()

	var result []advance.Repayment
	for _, rep := range r.store.advanceRepayments {
		if rep.AdvanceID == advanceID {
			result = append(result, rep)
		}
	}
	sortByCreated(result,
		func(rep advance.Repayment) time.Time { return rep.CreatedAt },
		func(rep advance.Repayment) string { return rep.ID })
	return result, nil
}

func (r *advanceRepository) ListRepaymentsByPeriod(ctx context.Context, periodID string) ([]advance.Repayment, error) {
	defer r.store.enter(ctx)()

	var result []advance.Repayment
	for _, rep := range r.store.advanceRepayments {
		if rep.PeriodID == periodID {
			result = append(result, rep)
		}
	}
	sortByCreated(result,
		func(rep advance.Repayment) time.Time { return rep.CreatedAt },
		func(rep advance.Repayment) string { return rep.ID })
	return result, nil
}
