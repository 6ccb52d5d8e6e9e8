package employee

import (
	"context"
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{employeeRepo: employeeRepo}
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		Name:          req.Name,
		Email:         req.Email,
		PaymentMethod: req.PaymentMethod,
		BankName:      req.BankName,
		BankAccount:   req.BankAccount,
		Active:        true,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(created), nil
}

func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(e), nil
}

func (s *EmployeeServiceImpl) ListActive(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		result = append(result, employee.ToResponse(e))
	}
	return result, nil
}

func (s *EmployeeServiceImpl) SetSalaryStructure(ctx context.Context, employeeID string, req employee.SetSalaryStructureRequest) (employee.SalaryStructureResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.SalaryStructureResponse{}, err
	}

	e, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return employee.SalaryStructureResponse{}, err
	}
	if !e.Active {
		return employee.SalaryStructureResponse{}, employee.ErrEmployeeInactive
	}

	effectiveDate := time.Now().Truncate(24 * time.Hour)
	if req.EffectiveDate != nil {
		effectiveDate, _ = time.Parse("2006-01-02", *req.EffectiveDate)
	}
	hourlyRate := decimal.Zero
	if req.HourlyRate != nil {
		hourlyRate = *req.HourlyRate
	}

	saved, err := s.employeeRepo.UpsertSalaryStructure(ctx, employee.SalaryStructure{
		EmployeeID:    employeeID,
		BasicSalary:   req.BasicSalary,
		Allowances:    req.Allowances,
		HourlyRate:    hourlyRate,
		EffectiveDate: effectiveDate,
		Active:        true,
	})
	if err != nil {
		return employee.SalaryStructureResponse{}, err
	}
	return employee.ToSalaryStructureResponse(saved), nil
}

func (s *EmployeeServiceImpl) GetSalaryStructure(ctx context.Context, employeeID string) (employee.SalaryStructureResponse, error) {
	structure, err := s.employeeRepo.GetActiveSalaryStructure(ctx, employeeID)
	if err != nil {
		return employee.SalaryStructureResponse{}, err
	}
	return employee.ToSalaryStructureResponse(structure), nil
}
