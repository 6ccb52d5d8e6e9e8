package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/advance"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
	"github.com/payflow-hq/payroll-backend-go/internal/pkg/database"
)

type advanceRepository struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepository{db: db}
}

const advanceColumns = `id, employee_id, requested_amount, approved_amount, repayment_method, installments,
	paid_amount, remaining_amount, reason, status,
	approved_by, approved_at, rejection_reason, disbursed_at,
	version, created_at, updated_at`

func scanAdvance(row pgx.Row) (advance.SalaryAdvance, error) {
	var a advance.SalaryAdvance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.RequestedAmount, &a.ApprovedAmount, &a.RepaymentMethod, &a.Installments,
		&a.PaidAmount, &a.RemainingAmount, &a.Reason, &a.Status,
		&a.ApprovedBy, &a.ApprovedAt, &a.RejectionReason, &a.DisbursedAt,
		&a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *advanceRepository) Create(ctx context.Context, a advance.SalaryAdvance) (advance.SalaryAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_advances (
			employee_id, requested_amount, repayment_method, installments,
			paid_amount, remaining_amount, reason, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + advanceColumns

	created, err := scanAdvance(q.QueryRow(ctx, query,
		a.EmployeeID, a.RequestedAmount, a.RepaymentMethod, a.Installments,
		a.PaidAmount, a.RemainingAmount, a.Reason, a.Status,
	))
	if err != nil {
		return advance.SalaryAdvance{}, fmt.Errorf("failed to create salary advance: %w", err)
	}

	return created, nil
}

func (r *advanceRepository) GetByID(ctx context.Context, id string) (advance.SalaryAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + advanceColumns + ` FROM salary_advances WHERE id = $1`

	a, err := scanAdvance(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return advance.SalaryAdvance{}, advance.ErrAdvanceNotFound
		}
		return advance.SalaryAdvance{}, fmt.Errorf("failed to get salary advance: %w", err)
	}

	return a, nil
}

func (r *advanceRepository) List(ctx context.Context, filter advance.Filter) ([]advance.SalaryAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + advanceColumns + ` FROM salary_advances WHERE 1=1`
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
	query += " ORDER BY created_at ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary advances: %w", err)
	}
	defer rows.Close()

	advances := []advance.SalaryAdvance{}
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary advance: %w", err)
		}
		advances = append(advances, a)
	}

	return advances, rows.Err()
}

func (r *advanceRepository) ListOpenByEmployee(ctx context.Context, employeeID string) ([]advance.SalaryAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + advanceColumns + `
		FROM salary_advances
		WHERE employee_id = $1 AND status IN ('disbursed', 'repaying')
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list open salary advances: %w", err)
	}
	defer rows.Close()

	advances := []advance.SalaryAdvance{}
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary advance: %w", err)
		}
		advances = append(advances, a)
	}

	return advances, rows.Err()
}

func (r *advanceRepository) Update(ctx context.Context, a advance.SalaryAdvance) (advance.SalaryAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_advances
		SET approved_amount = $3, installments = $4, paid_amount = $5, remaining_amount = $6,
			status = $7, approved_by = $8, approved_at = $9, rejection_reason = $10, disbursed_at = $11,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING ` + advanceColumns

	updated, err := scanAdvance(q.QueryRow(ctx, query,
		a.ID, a.Version,
		a.ApprovedAmount, a.Installments, a.PaidAmount, a.RemainingAmount,
		a.Status, a.ApprovedBy, a.ApprovedAt, a.RejectionReason, a.DisbursedAt,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			if _, getErr := r.GetByID(ctx, a.ID); getErr != nil {
				return advance.SalaryAdvance{}, getErr
			}
			return advance.SalaryAdvance{}, &ledger.VersionConflictError{Entity: "salary advance", ID: a.ID}
		}
		return advance.SalaryAdvance{}, fmt.Errorf("failed to update salary advance: %w", err)
	}

	return updated, nil
}

// ========== REPAYMENTS ==========

const advanceRepaymentColumns = `id, advance_id, period_id, employee_id, entry_id, amount, created_at`

func scanAdvanceRepayment(row pgx.Row) (advance.Repayment, error) {
	var rep advance.Repayment
	err := row.Scan(
		&rep.ID, &rep.AdvanceID, &rep.PeriodID, &rep.EmployeeID, &rep.EntryID, &rep.Amount, &rep.CreatedAt,
	)
	return rep, err
}

func (r *advanceRepository) CreateRepayment(ctx context.Context, rep advance.Repayment) (advance.Repayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO advance_repayments (advance_id, period_id, employee_id, entry_id, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + advanceRepaymentColumns

	created, err := scanAdvanceRepayment(q.QueryRow(ctx, query,
		rep.AdvanceID, rep.PeriodID, rep.EmployeeID, rep.EntryID, rep.Amount,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_advance_repayment_period") {
			return advance.Repayment{}, &advance.CommitConflictError{AdvanceID: rep.AdvanceID, PeriodID: rep.PeriodID}
		}
		return advance.Repayment{}, fmt.Errorf("failed to create advance repayment: %w", err)
	}

	return created, nil
}

func (r *advanceRepository) GetRepayment(ctx context.Context, advanceID, periodID string) (advance.Repayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + advanceRepaymentColumns + ` FROM advance_repayments WHERE advance_id = $1 AND period_id = $2`

	rep, err := scanAdvanceRepayment(q.QueryRow(ctx, query, advanceID, periodID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return advance.Repayment{}, advance.ErrRepaymentNotFound
		}
		return advance.Repayment{}, fmt.Errorf("failed to get advance repayment: %w", err)
	}

	return rep, nil
}

func (r *advanceRepository) ListRepaymentsByAdvance(ctx context.Context, advanceID string) ([]advance.Repayment, error) {
	return r.listRepayments(ctx, `advance_id`, advanceID)
}

func (r *advanceRepository) ListRepaymentsByPeriod(ctx context.Context, periodID string) ([]advance.Repayment, error) {
	return r.listRepayments(ctx, `period_id`, periodID)
}

func (r *advanceRepository) listRepayments(ctx context.Context, column, value string) ([]advance.Repayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + advanceRepaymentColumns + ` FROM advance_repayments WHERE ` + column + ` = $1 ORDER BY created_at ASC`

	rows, err := q.Query(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("failed to list advance repayments: %w", err)
	}
	defer rows.Close()

	repayments := []advance.Repayment{}
	for rows.Next() {
		rep, err := scanAdvanceRepayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance repayment: %w", err)
		}
		repayments = append(repayments, rep)
	}

	return repayments, rows.Err()
}
