package loan

import (
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/pkg/finance"
	"github.com/payflow-hq/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateLoanRequest struct {
	EmployeeID      string          `json:"employee_id"`
	LoanType        string          `json:"loan_type"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"` // annual %
	Tenure          int             `json:"tenure"`        // months
	GuarantorName   *string         `json:"guarantor_name,omitempty"`
	GuarantorPhone  *string         `json:"guarantor_phone,omitempty"`
	Reason          *string         `json:"reason,omitempty"`
}

func (r *CreateLoanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.LoanType) {
		errs = append(errs, validator.ValidationError{Field: "loan_type", Message: "is required"})
	}
	if !r.RequestedAmount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "requested_amount", Message: "must be positive"})
	}
	if r.InterestRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "interest_rate", Message: "must be non-negative"})
	}
	if r.Tenure < 1 {
		errs = append(errs, validator.ValidationError{Field: "tenure", Message: "must be at least 1 month"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveLoanRequest struct {
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	ApproverID     string          `json:"approver_id"`
}

func (r *ApproveLoanRequest) Validate() error {
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

type RejectLoanRequest struct {
	ApproverID string  `json:"approver_id"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *RejectLoanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LoanResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	LoanType         string          `json:"loan_type"`
	RequestedAmount  decimal.Decimal `json:"requested_amount"`
	ApprovedAmount   decimal.Decimal `json:"approved_amount"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	Tenure           int             `json:"tenure"`
	MonthlyDeduction decimal.Decimal `json:"monthly_deduction"`
	TotalPayable     decimal.Decimal `json:"total_payable"`
	PaidAmount       decimal.Decimal `json:"paid_amount"`
	RemainingAmount  decimal.Decimal `json:"remaining_amount"`
	InstallmentsPaid int             `json:"installments_paid"`
	GuarantorName    *string         `json:"guarantor_name,omitempty"`
	GuarantorPhone   *string         `json:"guarantor_phone,omitempty"`
	Reason           *string         `json:"reason,omitempty"`
	Status           string          `json:"status"`
	ApprovedBy       *string         `json:"approved_by,omitempty"`
	ApprovedAt       *string         `json:"approved_at,omitempty"`
	RejectionReason  *string         `json:"rejection_reason,omitempty"`
	DisbursedAt      *string         `json:"disbursed_at,omitempty"`
}

// ScheduleResponse is the dry-run amortization preview. It never touches
// ledger state.
type ScheduleResponse struct {
	LoanID        string                `json:"loan_id"`
	EMI           decimal.Decimal       `json:"emi"`
	TotalInterest decimal.Decimal       `json:"total_interest"`
	TotalPayable  decimal.Decimal       `json:"total_payable"`
	Installments  []InstallmentResponse `json:"installments"`
}

type InstallmentResponse struct {
	Number    int             `json:"number"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
}

func ToResponse(l EmployeeLoan) LoanResponse {
	return LoanResponse{
		ID:               l.ID,
		EmployeeID:       l.EmployeeID,
		LoanType:         l.LoanType,
		RequestedAmount:  l.RequestedAmount,
		ApprovedAmount:   l.ApprovedAmount,
		InterestRate:     l.InterestRate,
		Tenure:           l.Tenure,
		MonthlyDeduction: l.MonthlyDeduction,
		TotalPayable:     l.TotalPayable,
		PaidAmount:       l.PaidAmount,
		RemainingAmount:  l.RemainingAmount,
		InstallmentsPaid: l.InstallmentsPaid,
		GuarantorName:    l.GuarantorName,
		GuarantorPhone:   l.GuarantorPhone,
		Reason:           l.Reason,
		Status:           string(l.Status),
		ApprovedBy:       l.ApprovedBy,
		ApprovedAt:       formatTime(l.ApprovedAt),
		RejectionReason:  l.RejectionReason,
		DisbursedAt:      formatTime(l.DisbursedAt),
	}
}

func ToScheduleResponse(loanID string, s finance.Schedule) ScheduleResponse {
	installments := make([]InstallmentResponse, 0, len(s.Installments))
	for _, inst := range s.Installments {
		installments = append(installments, InstallmentResponse{
			Number:    inst.Number,
			Interest:  inst.Interest,
			Principal: inst.Principal,
			Amount:    inst.Amount,
			Balance:   inst.Balance,
		})
	}
	return ScheduleResponse{
		LoanID:        loanID,
		EMI:           s.EMI,
		TotalInterest: s.TotalInterest,
		TotalPayable:  s.TotalPayable,
		Installments:  installments,
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
