package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/loan"
	"github.com/payflow-hq/payroll-backend-go/internal/pkg/database"
)

type loanRepository struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) loan.LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `id, employee_id, loan_type, requested_amount, approved_amount, interest_rate, tenure,
	monthly_deduction, total_payable, paid_amount, remaining_amount, installments_paid,
	guarantor_name, guarantor_phone, reason, status,
	approved_by, approved_at, rejection_reason, disbursed_at,
	version, created_at, updated_at`

func scanLoan(row pgx.Row) (loan.EmployeeLoan, error) {
	var l loan.EmployeeLoan
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.LoanType, &l.RequestedAmount, &l.ApprovedAmount, &l.InterestRate, &l.Tenure,
		&l.MonthlyDeduction, &l.TotalPayable, &l.PaidAmount, &l.RemainingAmount, &l.InstallmentsPaid,
		&l.GuarantorName, &l.GuarantorPhone, &l.Reason, &l.Status,
		&l.ApprovedBy, &l.ApprovedAt, &l.RejectionReason, &l.DisbursedAt,
		&l.Version, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func (r *loanRepository) Create(ctx context.Context, l loan.EmployeeLoan) (loan.EmployeeLoan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_loans (
			employee_id, loan_type, requested_amount, interest_rate, tenure,
			paid_amount, remaining_amount, guarantor_name, guarantor_phone, reason, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + loanColumns

	created, err := scanLoan(q.QueryRow(ctx, query,
		l.EmployeeID, l.LoanType, l.RequestedAmount, l.InterestRate, l.Tenure,
		l.PaidAmount, l.RemainingAmount, l.GuarantorName, l.GuarantorPhone, l.Reason, l.Status,
	))
	if err != nil {
		return loan.EmployeeLoan{}, fmt.Errorf("failed to create employee loan: %w", err)
	}

	return created, nil
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (loan.EmployeeLoan, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + loanColumns + ` FROM employee_loans WHERE id = $1`

	l, err := scanLoan(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return loan.EmployeeLoan{}, loan.ErrLoanNotFound
		}
		return loan.EmployeeLoan{}, fmt.Errorf("failed to get employee loan: %w", err)
	}

	return l, nil
}

func (r *loanRepository) List(ctx context.Context, filter loan.Filter) ([]loan.EmployeeLoan, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + loanColumns + ` FROM employee_loans WHERE 1=1`
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
		return nil, fmt.Errorf("failed to list employee loans: %w", err)
	}
	defer rows.Close()

	loans := []loan.EmployeeLoan{}
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee loan: %w", err)
		}
		loans = append(loans, l)
	}

	return loans, rows.Err()
}

func (r *loanRepository) ListOpenByEmployee(ctx context.Context, employeeID string) ([]loan.EmployeeLoan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + loanColumns + `
		FROM employee_loans
		WHERE employee_id = $1 AND status IN ('disbursed', 'active')
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list open employee loans: %w", err)
	}
	defer rows.Close()

	loans := []loan.EmployeeLoan{}
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee loan: %w", err)
		}
		loans = append(loans, l)
	}

	return loans, rows.Err()
}

func (r *loanRepository) Update(ctx context.Context, l loan.EmployeeLoan) (loan.EmployeeLoan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employee_loans
		SET approved_amount = $3, monthly_deduction = $4, total_payable = $5,
			paid_amount = $6, remaining_amount = $7, installments_paid = $8,
			status = $9, approved_by = $10, approved_at = $11, rejection_reason = $12, disbursed_at = $13,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING ` + loanColumns

	updated, err := scanLoan(q.QueryRow(ctx, query,
		l.ID, l.Version,
		l.ApprovedAmount, l.MonthlyDeduction, l.TotalPayable,
		l.PaidAmount, l.RemainingAmount, l.InstallmentsPaid,
		l.Status, l.ApprovedBy, l.ApprovedAt, l.RejectionReason, l.DisbursedAt,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			if _, getErr := r.GetByID(ctx, l.ID); getErr != nil {
				return loan.EmployeeLoan{}, getErr
			}
			return loan.EmployeeLoan{}, &ledger.VersionConflictError{Entity: "employee loan", ID: l.ID}
		}
		return loan.EmployeeLoan{}, fmt.Errorf("failed to update employee loan: %w", err)
	}

	return updated, nil
}

// ========== REPAYMENTS ==========

const loanRepaymentColumns = `id, loan_id, period_id, employee_id, entry_id, installment_no, amount, created_at`

func scanLoanRepayment(row pgx.Row) (loan.Repayment, error) {
	var rep loan.Repayment
	err := row.Scan(
		&rep.ID, &rep.LoanID, &rep.PeriodID, &rep.EmployeeID, &rep.EntryID, &rep.InstallmentNo, &rep.Amount, &rep.CreatedAt,
	)
	return rep, err
}

func (r *loanRepository) CreateRepayment(ctx context.Context, rep loan.Repayment) (loan.Repayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO loan_repayments (loan_id, period_id, employee_id, entry_id, installment_no, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + loanRepaymentColumns

	created, err := scanLoanRepayment(q.QueryRow(ctx, query,
		rep.LoanID, rep.PeriodID, rep.EmployeeID, rep.EntryID, rep.InstallmentNo, rep.Amount,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_loan_repayment_period") {
			return loan.Repayment{}, &loan.CommitConflictError{LoanID: rep.LoanID, PeriodID: rep.PeriodID}
		}
		return loan.Repayment{}, fmt.Errorf("failed to create loan repayment: %w", err)
	}

	return created, nil
}

func (r *loanRepository) GetRepayment(ctx context.Context, loanID, periodID string) (loan.Repayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + loanRepaymentColumns + ` FROM loan_repayments WHERE loan_id = $1 AND period_id = $2`

	rep, err := scanLoanRepayment(q.QueryRow(ctx, query, loanID, periodID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return loan.Repayment{}, loan.ErrRepaymentNotFound
		}
		return loan.Repayment{}, fmt.Errorf("failed to get loan repayment: %w", err)
	}

	return rep, nil
}

func (r *loanRepository) ListRepaymentsByLoan(ctx context.Context, loanID string) ([]loan.Repayment, error) {
	return r.listRepayments(ctx, `loan_id`, loanID)
}

func (r *loanRepository) ListRepaymentsByPeriod(ctx context.Context, periodID string) ([]loan.Repayment, error) {
	return r.listRepayments(ctx, `period_id`, periodID)
}

func (r *loanRepository) listRepayments(ctx context.Context, column, value string) ([]loan.Repayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + loanRepaymentColumns + ` FROM loan_repayments WHERE ` + column + ` = $1 ORDER BY installment_no ASC, created_at ASC`

	rows, err := q.Query(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan repayments: %w", err)
	}
	defer rows.Close()

	repayments := []loan.Repayment{}
	for rows.Next() {
		rep, err := scanLoanRepayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan repayment: %w", err)
		}
		repayments = append(repayments, rep)
	}

	return repayments, rows.Err()
}
