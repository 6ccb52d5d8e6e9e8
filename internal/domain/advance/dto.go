package advance

import (
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateAdvanceRequest struct {
	EmployeeID      string          `json:"employee_id"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	RepaymentMethod string          `json:"repayment_method"` // "single" or "installments"
	Installments    int             `json:"installments,omitempty"`
	Reason          *string         `json:"reason,omitempty"`
}

func (r *CreateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !r.RequestedAmount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "requested_amount", Message: "must be positive"})
	}
	switch RepaymentMethod(r.RepaymentMethod) {
	case RepaymentSingle:
		// Installment count is ignored for single repayment.
	case RepaymentInstallments:
		if r.Installments < 2 {
			errs = append(errs, validator.ValidationError{Field: "installments", Message: "must be at least 2"})
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "repayment_method", Message: "must be 'single' or 'installments'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveAdvanceRequest struct {
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	ApproverID     string          `json:"approver_id"`
}

func (r *ApproveAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.ApprovedAmount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "approved_amount", Message: "must be positive"})
	}
	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectAdvanceRequest struct {
	ApproverID string  `json:"approver_id"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *RejectAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdvanceResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	ApprovedAmount  decimal.Decimal `json:"approved_amount"`
	RepaymentMethod string          `json:"repayment_method"`
	Installments    int             `json:"installments"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Reason          *string         `json:"reason,omitempty"`
	Status          string          `json:"status"`
	ApprovedBy      *string         `json:"approved_by,omitempty"`
	ApprovedAt      *string         `json:"approved_at,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	DisbursedAt     *string         `json:"disbursed_at,omitempty"`
}

func ToResponse(a SalaryAdvance) AdvanceResponse {
	return AdvanceResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		RequestedAmount: a.RequestedAmount,
		ApprovedAmount:  a.ApprovedAmount,
		RepaymentMethod: string(a.RepaymentMethod),
		Installments:    a.Installments,
		PaidAmount:      a.PaidAmount,
		RemainingAmount: a.RemainingAmount,
		Reason:          a.Reason,
		Status:          string(a.Status),
		ApprovedBy:      a.ApprovedBy,
		ApprovedAt:      formatTime(a.ApprovedAt),
		RejectionReason: a.RejectionReason,
		DisbursedAt:     formatTime(a.DisbursedAt),
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
