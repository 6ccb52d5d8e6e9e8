package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/overtime"
	"github.com/payflow-hq/payroll-backend-go/internal/pkg/database"
)

type overtimeRepository struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeRepository {
	return &overtimeRepository{db: db}
}

const overtimeColumns = `id, employee_id, date, hours, overtime_type, rate, hourly_rate,
	status, approved_hours, calculated_amount,
	approved_by, approved_at, processed_entry_id,
	version, created_at, updated_at`

func scanOvertime(row pgx.Row) (overtime.OvertimeRecord, error) {
	var rec overtime.OvertimeRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.Hours, &rec.OvertimeType, &rec.Rate, &rec.HourlyRate,
		&rec.Status, &rec.ApprovedHours, &rec.CalculatedAmount,
		&rec.ApprovedBy, &rec.ApprovedAt, &rec.ProcessedEntryID,
		&rec.Version, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

func (r *overtimeRepository) Create(ctx context.Context, rec overtime.OvertimeRecord) (overtime.OvertimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_records (employee_id, date, hours, overtime_type, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + overtimeColumns

	created, err := scanOvertime(q.QueryRow(ctx, query,
		rec.EmployeeID, rec.Date, rec.Hours, rec.OvertimeType, rec.Status,
	))
	if err != nil {
		return overtime.OvertimeRecord{}, fmt.Errorf("failed to create overtime record: %w", err)
	}

	return created, nil
}

func (r *overtimeRepository) GetByID(ctx context.Context, id string) (overtime.OvertimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + overtimeColumns + ` FROM overtime_records WHERE id = $1`

	rec, err := scanOvertime(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return overtime.OvertimeRecord{}, overtime.ErrRecordNotFound
		}
		return overtime.OvertimeRecord{}, fmt.Errorf("failed to get overtime record: %w", err)
	}

	return rec, nil
}

func (r *overtimeRepository) List(ctx context.Context, filter overtime.Filter) ([]overtime.OvertimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + overtimeColumns + ` FROM overtime_records WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.EmployeeID != nil {
		query += fmt.Sprintf(" AND employee_id = $%d", argNum)
		args = append(args, *filter.EmployeeID)
		argNum++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, *filter.Status)
		argNum++
	}
	query += " ORDER BY date ASC, created_at ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime records: %w", err)
	}
	defer rows.Close()

	records := []overtime.OvertimeRecord{}
	for rows.Next() {
		rec, err := scanOvertime(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *overtimeRepository) ListApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]overtime.OvertimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + overtimeColumns + `
		FROM overtime_records
		WHERE employee_id = $1 AND status = 'approved' AND date >= $2 AND date <= $3
		ORDER BY date ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved overtime records: %w", err)
	}
	defer rows.Close()

	records := []overtime.OvertimeRecord{}
	for rows.Next() {
		rec, err := scanOvertime(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *overtimeRepository) Update(ctx context.Context, rec overtime.OvertimeRecord) (overtime.OvertimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_records
		SET rate = $3, hourly_rate = $4, status = $5, approved_hours = $6, calculated_amount = $7,
			approved_by = $8, approved_at = $9, processed_entry_id = $10,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING ` + overtimeColumns

	updated, err := scanOvertime(q.QueryRow(ctx, query,
		rec.ID, rec.Version,
		rec.Rate, rec.HourlyRate, rec.Status, rec.ApprovedHours, rec.CalculatedAmount,
		rec.ApprovedBy, rec.ApprovedAt, rec.ProcessedEntryID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			if _, getErr := r.GetByID(ctx, rec.ID); getErr != nil {
				return overtime.OvertimeRecord{}, getErr
			}
			return overtime.OvertimeRecord{}, &ledger.VersionConflictError{Entity: "overtime record", ID: rec.ID}
		}
		return overtime.OvertimeRecord{}, fmt.Errorf("failed to update overtime record: %w", err)
	}

	return updated, nil
}
