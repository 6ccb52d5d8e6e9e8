package employee

import (
	"context"

	"github.com/payflow-hq/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	Name          string  `json:"name"`
	Email         *string `json:"email,omitempty"`
	PaymentMethod string  `json:"payment_method"`
	BankName      *string `json:"bank_name,omitempty"`
	BankAccount   *string `json:"bank_account,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !validator.IsInSlice(r.PaymentMethod, []string{"bank_transfer", "cash"}) {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: "must be 'bank_transfer' or 'cash'"})
	}
	if r.PaymentMethod == "bank_transfer" {
		if r.BankName == nil || validator.IsEmpty(*r.BankName) {
			errs = append(errs, validator.ValidationError{Field: "bank_name", Message: "is required for bank transfers"})
		}
		if r.BankAccount == nil || validator.IsEmpty(*r.BankAccount) {
			errs = append(errs, validator.ValidationError{Field: "bank_account", Message: "is required for bank transfers"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetSalaryStructureRequest struct {
	BasicSalary   decimal.Decimal  `json:"basic_salary"`
	Allowances    decimal.Decimal  `json:"allowances"`
	HourlyRate    *decimal.Decimal `json:"hourly_rate,omitempty"`
	EffectiveDate *string          `json:"effective_date,omitempty"` // YYYY-MM-DD, defaults to today
}

func (r *SetSalaryStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.BasicSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "basic_salary", Message: "must be positive"})
	}
	if r.Allowances.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "allowances", Message: "must be non-negative"})
	}
	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be non-negative"})
	}
	if r.EffectiveDate != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         *string `json:"email,omitempty"`
	PaymentMethod string  `json:"payment_method"`
	BankName      *string `json:"bank_name,omitempty"`
	BankAccount   *string `json:"bank_account,omitempty"`
	Active        bool    `json:"active"`
}

type SalaryStructureResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	BasicSalary   decimal.Decimal `json:"basic_salary"`
	Allowances    decimal.Decimal `json:"allowances"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	EffectiveDate string          `json:"effective_date"`
	Active        bool            `json:"active"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID,
		Name:          e.Name,
		Email:         e.Email,
		PaymentMethod: e.PaymentMethod,
		BankName:      e.BankName,
		BankAccount:   e.BankAccount,
		Active:        e.Active,
	}
}

func ToSalaryStructureResponse(s SalaryStructure) SalaryStructureResponse {
	return SalaryStructureResponse{
		ID:            s.ID,
		EmployeeID:    s.EmployeeID,
		BasicSalary:   s.BasicSalary,
		Allowances:    s.Allowances,
		HourlyRate:    s.HourlyRate,
		EffectiveDate: s.EffectiveDate.Format("2006-01-02"),
		Active:        s.Active,
	}
}

// EmployeeService exposes the employee registry to the HTTP layer.
type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Get(ctx context.Context, id string) (EmployeeResponse, error)
	ListActive(ctx context.Context) ([]EmployeeResponse, error)
	SetSalaryStructure(ctx context.Context, employeeID string, req SetSalaryStructureRequest) (SalaryStructureResponse, error)
	GetSalaryStructure(ctx context.Context, employeeID string) (SalaryStructureResponse, error)
}
