package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/period"
	"github.com/payflow-hq/payroll-backend-go/internal/pkg/database"
)

type periodRepository struct {
	db *database.DB
}

func NewPeriodRepository(db *database.DB) period.PeriodRepository {
	return &periodRepository{db: db}
}

const periodColumns = `id, name, month, year, start_date, end_date, payment_date, status,
	employee_count, total_amount, approved_by, approved_at, version, created_at, updated_at`

func scanPeriod(row pgx.Row) (period.PayrollPeriod, error) {
	var p period.PayrollPeriod
	err := row.Scan(
		&p.ID, &p.Name, &p.Month, &p.Year, &p.StartDate, &p.EndDate, &p.PaymentDate, &p.Status,
		&p.EmployeeCount, &p.TotalAmount, &p.ApprovedBy, &p.ApprovedAt, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// ========== PERIODS ==========

func (r *periodRepository) CreatePeriod(ctx context.Context, p period.PayrollPeriod) (period.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_periods (name, month, year, start_date, end_date, payment_date, status, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + periodColumns

	created, err := scanPeriod(q.QueryRow(ctx, query,
		p.Name, p.Month, p.Year, p.StartDate, p.EndDate, p.PaymentDate, p.Status, p.TotalAmount,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_period_month_year") {
			return period.PayrollPeriod{}, period.ErrPeriodExists
		}
		return period.PayrollPeriod{}, fmt.Errorf("failed to create payroll period: %w", err)
	}

	return created, nil
}

func (r *periodRepository) GetPeriodByID(ctx context.Context, id string) (period.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE id = $1`

	p, err := scanPeriod(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return period.PayrollPeriod{}, period.ErrPeriodNotFound
		}
		return period.PayrollPeriod{}, fmt.Errorf("failed to get payroll period: %w", err)
	}

	return p, nil
}

func (r *periodRepository) GetPeriodByMonthYear(ctx context.Context, month, year int) (period.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE month = $1 AND year = $2`

	p, err := scanPeriod(q.QueryRow(ctx, query, month, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return period.PayrollPeriod{}, period.ErrPeriodNotFound
		}
		return period.PayrollPeriod{}, fmt.Errorf("failed to get payroll period: %w", err)
	}

	return p, nil
}

func (r *periodRepository) ListPeriods(ctx context.Context, filter period.Filter) ([]period.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, *filter.Status)
		argNum++
	}
	if filter.Month != nil {
		query += fmt.Sprintf(" AND month = $%d", argNum)
		args = append(args, *filter.Month)
		argNum++
	}
	if filter.Year != nil {
		query += fmt.Sprintf(" AND year = $%d", argNum)
		args = append(args, *filter.Year)
		argNum++
	}
	query += " ORDER BY year DESC, month DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll periods: %w", err)
	}
	defer rows.Close()

	periods := []period.PayrollPeriod{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll period: %w", err)
		}
		periods = append(periods, p)
	}

	return periods, rows.Err()
}

func (r *periodRepository) UpdatePeriod(ctx context.Context, p period.PayrollPeriod) (period.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET name = $3, status = $4, employee_count = $5, total_amount = $6,
			approved_by = $7, approved_at = $8,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING ` + periodColumns

	updated, err := scanPeriod(q.QueryRow(ctx, query,
		p.ID, p.Version,
		p.Name, p.Status, p.EmployeeCount, p.TotalAmount,
		p.ApprovedBy, p.ApprovedAt,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			if _, getErr := r.GetPeriodByID(ctx, p.ID); getErr != nil {
				return period.PayrollPeriod{}, getErr
			}
			return period.PayrollPeriod{}, &ledger.VersionConflictError{Entity: "payroll period", ID: p.ID}
		}
		return period.PayrollPeriod{}, fmt.Errorf("failed to update payroll period: %w", err)
	}

	return updated, nil
}

// ========== ENTRIES ==========

const entryColumns = `id, period_id, employee_id,
	basic_salary, allowances, overtime_pay, other_earnings,
	tax, advance_deduction, loan_deduction, absence_deduction, other_deductions,
	gross_salary, total_deductions, net_salary,
	payment_method, bank_name, bank_account,
	status, version, created_at, updated_at`

func scanEntry(row pgx.Row) (period.PayrollEntry, error) {
	var e period.PayrollEntry
	err := row.Scan(
		&e.ID, &e.PeriodID, &e.EmployeeID,
		&e.BasicSalary, &e.Allowances, &e.OvertimePay, &e.OtherEarnings,
		&e.Tax, &e.AdvanceDeduction, &e.LoanDeduction, &e.AbsenceDeduction, &e.OtherDeductions,
		&e.GrossSalary, &e.TotalDeductions, &e.NetSalary,
		&e.PaymentMethod, &e.BankName, &e.BankAccount,
		&e.Status, &e.Version, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *periodRepository) CreateEntry(ctx context.Context, e period.PayrollEntry) (period.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_entries (
			period_id, employee_id,
			basic_salary, allowances, overtime_pay, other_earnings,
			tax, advance_deduction, loan_deduction, absence_deduction, other_deductions,
			gross_salary, total_deductions, net_salary,
			payment_method, bank_name, bank_account, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + entryColumns

	created, err := scanEntry(q.QueryRow(ctx, query,
		e.PeriodID, e.EmployeeID,
		e.BasicSalary, e.Allowances, e.OvertimePay, e.OtherEarnings,
		e.Tax, e.AdvanceDeduction, e.LoanDeduction, e.AbsenceDeduction, e.OtherDeductions,
		e.GrossSalary, e.TotalDeductions, e.NetSalary,
		e.PaymentMethod, e.BankName, e.BankAccount, e.Status,
	))
	if err != nil {
		return period.PayrollEntry{}, fmt.Errorf("failed to create payroll entry: %w", err)
	}

	return created, nil
}

func (r *periodRepository) GetEntryByID(ctx context.Context, id string) (period.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + ` FROM payroll_entries WHERE id = $1`

	e, err := scanEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return period.PayrollEntry{}, period.ErrEntryNotFound
		}
		return period.PayrollEntry{}, fmt.Errorf("failed to get payroll entry: %w", err)
	}

	return e, nil
}

func (r *periodRepository) GetEntryByEmployeePeriod(ctx context.Context, employeeID, periodID string) (period.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + ` FROM payroll_entries WHERE employee_id = $1 AND period_id = $2`

	e, err := scanEntry(q.QueryRow(ctx, query, employeeID, periodID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return period.PayrollEntry{}, period.ErrEntryNotFound
		}
		return period.PayrollEntry{}, fmt.Errorf("failed to get payroll entry: %w", err)
	}

	return e, nil
}

func (r *periodRepository) ListEntriesByPeriod(ctx context.Context, periodID string) ([]period.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + ` FROM payroll_entries WHERE period_id = $1 ORDER BY created_at ASC`

	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll entries: %w", err)
	}
	defer rows.Close()

	entries := []period.PayrollEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *periodRepository) UpdateEntry(ctx context.Context, e period.PayrollEntry) (period.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_entries
		SET basic_salary = $3, allowances = $4, overtime_pay = $5, other_earnings = $6,
			tax = $7, advance_deduction = $8, loan_deduction = $9, absence_deduction = $10, other_deductions = $11,
			gross_salary = $12, total_deductions = $13, net_salary = $14, status = $15,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING ` + entryColumns

	updated, err := scanEntry(q.QueryRow(ctx, query,
		e.ID, e.Version,
		e.BasicSalary, e.Allowances, e.OvertimePay, e.OtherEarnings,
		e.Tax, e.AdvanceDeduction, e.LoanDeduction, e.AbsenceDeduction, e.OtherDeductions,
		e.GrossSalary, e.TotalDeductions, e.NetSalary, e.Status,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			if _, getErr := r.GetEntryByID(ctx, e.ID); getErr != nil {
				return period.PayrollEntry{}, getErr
			}
			return period.PayrollEntry{}, &ledger.VersionConflictError{Entity: "payroll entry", ID: e.ID}
		}
		return period.PayrollEntry{}, fmt.Errorf("failed to update payroll entry: %w", err)
	}

	return updated, nil
}

func (r *periodRepository) DeleteEntriesByPeriod(ctx context.Context, periodID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM payroll_entries WHERE period_id = $1`, periodID); err != nil {
		return fmt.Errorf("failed to delete payroll entries: %w", err)
	}
	return nil
}
