package memory

import (
	"context"
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/employee"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{store: store}
}

func (r *employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	defer r.store.enter(ctx)()

	now := time.Now()
	e.ID = newID(e.ID)
	e.Version = 1
	e.CreatedAt = now
	e.UpdatedAt = now
	r.store.employees[e.ID] = e
	return e, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	defer r.store.enter(ctx)()

	e, ok := r.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	defer r.store.enter(ctx)()

	var result []employee.Employee
	for _, e := range r.store.employees {
		if e.Active {
			result = append(result, e)
		}
	}
	sortByCreated(result,
		func(e employee.Employee) time.Time { return e.CreatedAt },
		func(e employee.Employee) string { return e.ID })
	return result, nil
}

func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	defer r.store.enter(ctx)()

	stored, ok := r.store.employees[e.ID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if stored.Version != e.Version {
		return employee.Employee{}, &ledger.VersionConflictError{Entity: "employee", ID: e.ID}
	}
	e.Version++
	e.CreatedAt = stored.CreatedAt
	e.UpdatedAt = time.Now()
	r.store.employees[e.ID] = e
	return e, nil
}

func (r *employeeRepository) UpsertSalaryStructure(ctx context.Context, s employee.SalaryStructure) (employee.SalaryStructure, error) {
	defer r.store.enter(ctx)()

	now := time.Now()
	if existing, ok := r.store.salaryStructures[s.EmployeeID]; ok {
		s.ID = existing.ID
		s.Version = existing.Version + 1
		s.CreatedAt = existing.CreatedAt
	} else {
		s.ID = newID(s.ID)
		s.Version = 1
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	r.store.salaryStructures[s.EmployeeID] = s
	return s, nil
}

func (r *employeeRepository) GetActiveSalaryStructure(ctx context.Context, employeeID string) (employee.SalaryStructure, error) {
	defer r.store.enter(ctx)()

	s, ok := r.store.salaryStructures[employeeID]
	if !ok || !s.Active {
		return employee.SalaryStructure{}, employee.ErrSalaryStructureNotFound
	}
	return s, nil
}
