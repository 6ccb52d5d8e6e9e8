package overtime

import (
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateOvertimeRequest struct {
	EmployeeID   string          `json:"employee_id"`
	Date         string          `json:"date"` // YYYY-MM-DD
	Hours        decimal.Decimal `json:"hours"`
	OvertimeType string          `json:"overtime_type"` // weekday, weekend, holiday
}

func (r *CreateOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if !r.Hours.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "hours", Message: "must be positive"})
	}
	if _, ok := Type(r.OvertimeType).Multiplier(); !ok {
		errs = append(errs, validator.ValidationError{Field: "overtime_type", Message: "must be 'weekday', 'weekend' or 'holiday'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveOvertimeRequest struct {
	ApproverID    string           `json:"approver_id"`
	ApprovedHours *decimal.Decimal `json:"approved_hours,omitempty"` // defaults to claimed hours
}

func (r *ApproveOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "is required"})
	}
	if r.ApprovedHours != nil && !r.ApprovedHours.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "approved_hours", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectOvertimeRequest struct {
	ApproverID string `json:"approver_id"`
}

func (r *RejectOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type OvertimeResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	Date             string          `json:"date"`
	Hours            decimal.Decimal `json:"hours"`
	OvertimeType     string          `json:"overtime_type"`
	Rate             decimal.Decimal `json:"rate"`
	HourlyRate       decimal.Decimal `json:"hourly_rate"`
	Status           string          `json:"status"`
	ApprovedHours    decimal.Decimal `json:"approved_hours"`
	CalculatedAmount decimal.Decimal `json:"calculated_amount"`
	ApprovedBy       *string         `json:"approved_by,omitempty"`
	ApprovedAt       *string         `json:"approved_at,omitempty"`
	ProcessedEntryID *string         `json:"processed_entry_id,omitempty"`
}

func ToResponse(rec OvertimeRecord) OvertimeResponse {
	var approvedAt *string
	if rec.ApprovedAt != nil {
		s := rec.ApprovedAt.Format(time.RFC3339)
		approvedAt = &s
	}
	return OvertimeResponse{
		ID:               rec.ID,
		EmployeeID:       rec.EmployeeID,
		Date:             rec.Date.Format("2006-01-02"),
		Hours:            rec.Hours,
		OvertimeType:     string(rec.OvertimeType),
		Rate:             rec.Rate,
		HourlyRate:       rec.HourlyRate,
		Status:           string(rec.Status),
		ApprovedHours:    rec.ApprovedHours,
		CalculatedAmount: rec.CalculatedAmount,
		ApprovedBy:       rec.ApprovedBy,
		ApprovedAt:       approvedAt,
		ProcessedEntryID: rec.ProcessedEntryID,
	}
}
