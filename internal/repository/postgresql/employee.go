package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/employee"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
	"github.com/payflow-hq/payroll-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, name, email, payment_method, bank_name, bank_account, active, version, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.Name, &e.Email, &e.PaymentMethod, &e.BankName, &e.BankAccount, &e.Active,
		&e.Version, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (name, email, payment_method, bank_name, bank_account, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		e.Name, e.Email, e.PaymentMethod, e.BankName, e.BankAccount, e.Active,
	))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return created, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE active = TRUE ORDER BY created_at ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}

func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET name = $3, email = $4, payment_method = $5, bank_name = $6, bank_account = $7, active = $8,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		e.ID, e.Version,
		e.Name, e.Email, e.PaymentMethod, e.BankName, e.BankAccount, e.Active,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			if _, getErr := r.GetByID(ctx, e.ID); getErr != nil {
				return employee.Employee{}, getErr
			}
			return employee.Employee{}, &ledger.VersionConflictError{Entity: "employee", ID: e.ID}
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return updated, nil
}

// ========== SALARY STRUCTURES ==========

const salaryStructureColumns = `id, employee_id, basic_salary, allowances, hourly_rate, effective_date, active, version, created_at, updated_at`

func scanSalaryStructure(row pgx.Row) (employee.SalaryStructure, error) {
	var s employee.SalaryStructure
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.BasicSalary, &s.Allowances, &s.HourlyRate, &s.EffectiveDate, &s.Active,
		&s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// UpsertSalaryStructure retires the employee's current structure and
// inserts the new one as the single active row.
func (r *employeeRepository) UpsertSalaryStructure(ctx context.Context, s employee.SalaryStructure) (employee.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx,
		`UPDATE salary_structures SET active = FALSE, updated_at = NOW() WHERE employee_id = $1 AND active = TRUE`,
		s.EmployeeID,
	); err != nil {
		return employee.SalaryStructure{}, fmt.Errorf("failed to retire salary structure: %w", err)
	}

	query := `
		INSERT INTO salary_structures (employee_id, basic_salary, allowances, hourly_rate, effective_date, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + salaryStructureColumns

	created, err := scanSalaryStructure(q.QueryRow(ctx, query,
		s.EmployeeID, s.BasicSalary, s.Allowances, s.HourlyRate, s.EffectiveDate, s.Active,
	))
	if err != nil {
		return employee.SalaryStructure{}, fmt.Errorf("failed to upsert salary structure: %w", err)
	}

	return created, nil
}

func (r *employeeRepository) GetActiveSalaryStructure(ctx context.Context, employeeID string) (employee.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryStructureColumns + `
		FROM salary_structures
		WHERE employee_id = $1 AND active = TRUE
		ORDER BY effective_date DESC
		LIMIT 1
	`

	s, err := scanSalaryStructure(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.SalaryStructure{}, employee.ErrSalaryStructureNotFound
		}
		return employee.SalaryStructure{}, fmt.Errorf("failed to get salary structure: %w", err)
	}

	return s, nil
}
