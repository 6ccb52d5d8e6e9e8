package period

import (
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== REQUESTS ==========

type CreatePeriodRequest struct {
	Name        string `json:"name"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	StartDate   string `json:"start_date"`   // YYYY-MM-DD
	EndDate     string `json:"end_date"`     // YYYY-MM-DD
	PaymentDate string `json:"payment_date"` // YYYY-MM-DD
}

func (r *CreatePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year < 2000 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be 2000 or later"})
	}
	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}
	if _, ok := validator.IsValidDate(r.PaymentDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveRequest struct {
	ApproverID string `json:"approver_id"`
}

func (r *ApproveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSES ==========

type PeriodResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	PaymentDate   string          `json:"payment_date"`
	Status        string          `json:"status"`
	EmployeeCount int             `json:"employee_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ApprovedBy    *string         `json:"approved_by,omitempty"`
	ApprovedAt    *string         `json:"approved_at,omitempty"`
}

type EntryResponse struct {
	ID               string          `json:"id"`
	PeriodID         string          `json:"period_id"`
	EmployeeID       string          `json:"employee_id"`
	BasicSalary      decimal.Decimal `json:"basic_salary"`
	Allowances       decimal.Decimal `json:"allowances"`
	OvertimePay      decimal.Decimal `json:"overtime_pay"`
	OtherEarnings    decimal.Decimal `json:"other_earnings"`
	Tax              decimal.Decimal `json:"tax"`
	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`
	LoanDeduction    decimal.Decimal `json:"loan_deduction"`
	AbsenceDeduction decimal.Decimal `json:"absence_deduction"`
	OtherDeductions  decimal.Decimal `json:"other_deductions"`
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	NetSalary        decimal.Decimal `json:"net_salary"`
	PaymentMethod    string          `json:"payment_method"`
	BankName         *string         `json:"bank_name,omitempty"`
	BankAccount      *string         `json:"bank_account,omitempty"`
	Status           string          `json:"status"`
}

type ReconciliationReport struct {
	PeriodID   string     `json:"period_id"`
	Consistent bool       `json:"consistent"`
	Mismatches []Mismatch `json:"mismatches"`
}

// ========== MAPPERS ==========

func ToPeriodResponse(p PayrollPeriod) PeriodResponse {
	var approvedAt *string
	if p.ApprovedAt != nil {
		s := p.ApprovedAt.Format(time.RFC3339)
		approvedAt = &s
	}
	return PeriodResponse{
		ID:            p.ID,
		Name:          p.Name,
		Month:         p.Month,
		Year:          p.Year,
		StartDate:     p.StartDate.Format("2006-01-02"),
		EndDate:       p.EndDate.Format("2006-01-02"),
		PaymentDate:   p.PaymentDate.Format("2006-01-02"),
		Status:        string(p.Status),
		EmployeeCount: p.EmployeeCount,
		TotalAmount:   p.TotalAmount,
		ApprovedBy:    p.ApprovedBy,
		ApprovedAt:    approvedAt,
	}
}

func ToEntryResponse(e PayrollEntry) EntryResponse {
	return EntryResponse{
		ID:               e.ID,
		PeriodID:         e.PeriodID,
		EmployeeID:       e.EmployeeID,
		BasicSalary:      e.BasicSalary,
		Allowances:       e.Allowances,
		OvertimePay:      e.OvertimePay,
		OtherEarnings:    e.OtherEarnings,
		Tax:              e.Tax,
		AdvanceDeduction: e.AdvanceDeduction,
		LoanDeduction:    e.LoanDeduction,
		AbsenceDeduction: e.AbsenceDeduction,
		OtherDeductions:  e.OtherDeductions,
		GrossSalary:      e.GrossSalary,
		TotalDeductions:  e.TotalDeductions,
		NetSalary:        e.NetSalary,
		PaymentMethod:    e.PaymentMethod,
		BankName:         e.BankName,
		BankAccount:      e.BankAccount,
		Status:           string(e.Status),
	}
}
