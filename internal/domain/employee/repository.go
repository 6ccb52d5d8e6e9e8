package employee

import "context"

// EmployeeRepository is the ledger-store contract for employees and their
// salary structures.
type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)

	UpsertSalaryStructure(ctx context.Context, s SalaryStructure) (SalaryStructure, error)
	GetActiveSalaryStructure(ctx context.Context, employeeID string) (SalaryStructure, error)
}
