package memory

import (
	"context"
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/overtime"
)

type overtimeRepository struct {
	store *Store
}

func NewOvertimeRepository(store *Store) overtime.OvertimeRepository {
	return &overtimeRepository{store: store}
}

func (r *overtimeRepository) Create(ctx context.Context, rec overtime.OvertimeRecord) (overtime.OvertimeRecord, error) {
	defer r.store.enter(ctx)()

	now := time.Now()
	rec.ID = newID(rec.ID)
	rec.Version = 1
	rec.CreatedAt = now
	rec.UpdatedAt = now
	r.store.overtimeRecords[rec.ID] = rec
	return rec, nil
}

func (r *overtimeRepository) GetByID(ctx context.Context, id string) (overtime.OvertimeRecord, error) {
	defer r.store.enter(ctx)()

	rec, ok := r.store.overtimeRecords[id]
	if !ok {
		return overtime.OvertimeRecord{}, overtime.ErrRecordNotFound
	}
	return rec, nil
}

func (r *overtimeRepository) List(ctx context.Context, filter overtime.Filter) ([]overtime.OvertimeRecord, error) {
	defer r.store.enter(ctx)()

	var result []overtime.OvertimeRecord
	for _, rec := range r.store.overtimeRecords {
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		result = append(result, rec)
	}
	sortByCreated(result,
		func(rec overtime.OvertimeRecord) time.Time { return rec.CreatedAt },
		func(rec overtime.OvertimeRecord) string { return rec.ID })
	return result, nil
}

func (r *overtimeRepository) ListApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]overtime.OvertimeRecord, error) {
	defer r.store.enter(ctx)()

	var result []overtime.OvertimeRecord
	for _, rec := range r.store.overtimeRecords {
		if rec.EmployeeID != employeeID || rec.Status != overtime.StatusApproved {
			continue
		}
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		result = append(result, rec)
	}
	sortByCreated(result,
		func(rec overtime.OvertimeRecord) time.Time { return rec.CreatedAt },
		func(rec overtime.OvertimeRecord) string { return rec.ID })
	return result, nil
}

func (r *overtimeRepository) Update(ctx context.Context, rec overtime.OvertimeRecord) (overtime.OvertimeRecord, error) {
	defer r.store.enter(ctx)()

	stored, ok := r.store.overtimeRecords[rec.ID]
	if !ok {
		return overtime.OvertimeRecord{}, overtime.ErrRecordNotFound
	}
	if stored.Version != rec.Version {
		return overtime.OvertimeRecord{}, &ledger.VersionConflictError{Entity: "overtime_record", ID: rec.ID}
	}
	rec.Version++
	rec.CreatedAt = stored.CreatedAt
	rec.UpdatedAt = time.Now()
	r.store.overtimeRecords[rec.ID] = rec
	return rec, nil
}
