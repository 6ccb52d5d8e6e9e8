package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/employee"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/loan"
	"github.com/payflow-hq/payroll-backend-go/internal/pkg/finance"
	"github.com/shopspring/decimal"
)

type LoanServiceImpl struct {
	loanRepo       loan.LoanRepository
	employeeRepo   employee.EmployeeRepository
	currencyPlaces int32
}

func NewLoanService(
	loanRepo loan.LoanRepository,
	employeeRepo employee.EmployeeRepository,
	currencyPlaces int32,
) loan.LoanService {
	return &LoanServiceImpl{
		loanRepo:       loanRepo,
		employeeRepo:   employeeRepo,
		currencyPlaces: currencyPlaces,
	}
}

func (s *LoanServiceImpl) Create(ctx context.Context, req loan.CreateLoanRequest) (loan.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return loan.LoanResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	if !emp.Active {
		return loan.LoanResponse{}, employee.ErrEmployeeInactive
	}

	created, err := s.loanRepo.Create(ctx, loan.EmployeeLoan{
		EmployeeID:      req.EmployeeID,
		LoanType:        req.LoanType,
		RequestedAmount: req.RequestedAmount,
		InterestRate:    req.InterestRate,
		Tenure:          req.Tenure,
		PaidAmount:      decimal.Zero,
		RemainingAmount: decimal.Zero,
		GuarantorName:   req.GuarantorName,
		GuarantorPhone:  req.GuarantorPhone,
		Reason:          req.Reason,
		Status:          loan.StatusPending,
	})
	if err != nil {
		return loan.LoanResponse{}, err
	}

	return loan.ToResponse(created), nil
}

func (s *LoanServiceImpl) Get(ctx context.Context, id string) (loan.LoanResponse, error) {
	l, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	return loan.ToResponse(l), nil
}

func (s *LoanServiceImpl) List(ctx context.Context, filter loan.Filter) ([]loan.LoanResponse, error) {
	loans, err := s.loanRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]loan.LoanResponse, 0, len(loans))
	for _, l := range loans {
		result = append(result, loan.ToResponse(l))
	}
	return result, nil
}

func (s *LoanServiceImpl) Approve(ctx context.Context, id string, req loan.ApproveLoanRequest) (loan.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return loan.LoanResponse{}, err
	}

	l, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	if l.Status != loan.StatusPending {
		return loan.LoanResponse{}, &loan.TransitionError{
			LoanID: l.ID, Expected: loan.StatusPending, Actual: l.Status,
		}
	}

	now := time.Now()
	l.ApprovedAmount = req.ApprovedAmount
	l.ApprovedBy = &req.ApproverID
	l.ApprovedAt = &now
	l.Status = loan.StatusApproved

	updated, err := s.loanRepo.Update(ctx, l)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	return loan.ToResponse(updated), nil
}

func (s *LoanServiceImpl) Reject(ctx context.Context, id string, req loan.RejectLoanRequest) (loan.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return loan.LoanResponse{}, err
	}

	l, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	if l.Status != loan.StatusPending {
		return loan.LoanResponse{}, &loan.TransitionError{
			LoanID: l.ID, Expected: loan.StatusPending, Actual: l.Status,
		}
	}

	now := time.Now()
	l.ApprovedBy = &req.ApproverID
	l.ApprovedAt = &now
	l.RejectionReason = req.Reason
	l.Status = loan.StatusRejected

	updated, err := s.loanRepo.Update(ctx, l)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	return loan.ToResponse(updated), nil
}

// Disburse releases the approved amount and fixes the amortization plan:
// the EMI becomes the monthly deduction and the schedule's total payable
// becomes the balance the repayments must clear.
func (s *LoanServiceImpl) Disburse(ctx context.Context, id string) (loan.LoanResponse, error) {
	l, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	if l.Status != loan.StatusApproved {
		return loan.LoanResponse{}, &loan.TransitionError{
			LoanID: l.ID, Expected: loan.StatusApproved, Actual: l.Status,
		}
	}

	schedule, err := finance.LoanSchedule(l.ApprovedAmount, l.InterestRate, l.Tenure, s.currencyPlaces)
	if err != nil {
		return loan.LoanResponse{}, err
	}

	now := time.Now()
	l.MonthlyDeduction = schedule.EMI
	l.TotalPayable = schedule.TotalPayable
	l.RemainingAmount = schedule.TotalPayable
	l.DisbursedAt = &now
	l.Status = loan.StatusDisbursed

	updated, err := s.loanRepo.Update(ctx, l)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	return loan.ToResponse(updated), nil
}

// DeclareDefault marks an active loan defaulted. The engine never derives
// this status itself; it is an operational declaration.
func (s *LoanServiceImpl) DeclareDefault(ctx context.Context, id string) (loan.LoanResponse, error) {
	l, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	if l.Status != loan.StatusActive {
		return loan.LoanResponse{}, &loan.TransitionError{
			LoanID: l.ID, Expected: loan.StatusActive, Actual: l.Status,
		}
	}

	l.Status = loan.StatusDefaulted
	updated, err := s.loanRepo.Update(ctx, l)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	return loan.ToResponse(updated), nil
}

// Schedule previews the amortization plan without touching ledger state.
func (s *LoanServiceImpl) Schedule(ctx context.Context, id string) (loan.ScheduleResponse, error) {
	l, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return loan.ScheduleResponse{}, err
	}

	principal := l.ApprovedAmount
	if !principal.IsPositive() {
		principal = l.RequestedAmount
	}
	schedule, err := finance.LoanSchedule(principal, l.InterestRate, l.Tenure, s.currencyPlaces)
	if err != nil {
		return loan.ScheduleResponse{}, err
	}
	return loan.ToScheduleResponse(l.ID, schedule), nil
}

// PullDue answers what installment the loan owes for the given period.
// The final installment is the whole remaining balance so rounding
// remainders never survive the schedule.
func (s *LoanServiceImpl) PullDue(ctx context.Context, loanID, periodID string) (decimal.Decimal, error) {
	l, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return decimal.Zero, err
	}
	if l.Status != loan.StatusDisbursed && l.Status != loan.StatusActive {
		return decimal.Zero, &loan.TransitionError{
			LoanID: l.ID, Expected: loan.StatusDisbursed, Actual: l.Status,
		}
	}

	// Already committed for this period: nothing further due.
	if _, err := s.loanRepo.GetRepayment(ctx, loanID, periodID); err == nil {
		return decimal.Zero, nil
	} else if !errors.Is(err, loan.ErrRepaymentNotFound) {
		return decimal.Zero, err
	}

	due := s.dueAmount(l)

	if l.Status == loan.StatusDisbursed {
		l.Status = loan.StatusActive
		if _, err := s.loanRepo.Update(ctx, l); err != nil {
			return decimal.Zero, err
		}
	}
	return due, nil
}

func (s *LoanServiceImpl) dueAmount(l loan.EmployeeLoan) decimal.Decimal {
	if !l.RemainingAmount.IsPositive() || l.InstallmentsPaid >= l.Tenure {
		return decimal.Zero
	}
	if l.InstallmentsPaid == l.Tenure-1 {
		return l.RemainingAmount
	}
	if l.MonthlyDeduction.GreaterThan(l.RemainingAmount) {
		return l.RemainingAmount
	}
	return l.MonthlyDeduction
}

// DueForEmployee sums the period's due installments across the employee's
// open loans.
func (s *LoanServiceImpl) DueForEmployee(ctx context.Context, employeeID, periodID string) (decimal.Decimal, error) {
	open, err := s.loanRepo.ListOpenByEmployee(ctx, employeeID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, l := range open {
		due, err := s.PullDue(ctx, l.ID, periodID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(due)
	}
	return total, nil
}

// Commit records one installment. At most one commit may exist per
// (loan, period); a second attempt fails with ErrDuplicateCommit and
// leaves the loan untouched.
func (s *LoanServiceImpl) Commit(ctx context.Context, loanID, periodID, entryID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("loan %s: commit amount must be positive", loanID)
	}

	l, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return err
	}
	if l.Status != loan.StatusDisbursed && l.Status != loan.StatusActive {
		return &loan.TransitionError{
			LoanID: l.ID, Expected: loan.StatusActive, Actual: l.Status,
		}
	}
	if amount.GreaterThan(l.RemainingAmount) {
		return fmt.Errorf("loan %s: %w", loanID, loan.ErrExcessiveCommit)
	}

	if _, err := s.loanRepo.CreateRepayment(ctx, loan.Repayment{
		LoanID:        loanID,
		PeriodID:      periodID,
		EmployeeID:    l.EmployeeID,
		EntryID:       entryID,
		InstallmentNo: l.InstallmentsPaid + 1,
		Amount:        amount,
	}); err != nil {
		return err
	}

	l.PaidAmount = l.PaidAmount.Add(amount)
	l.RemainingAmount = l.TotalPayable.Sub(l.PaidAmount)
	l.InstallmentsPaid++
	if l.InstallmentsPaid >= l.Tenure {
		l.Status = loan.StatusCompleted
	} else if l.Status == loan.StatusDisbursed {
		l.Status = loan.StatusActive
	}

	_, err = s.loanRepo.Update(ctx, l)
	return err
}

// CommitForEmployee commits the period's due installment for every open
// loan of the employee and returns the total committed.
func (s *LoanServiceImpl) CommitForEmployee(ctx context.Context, employeeID, periodID, entryID string) (decimal.Decimal, error) {
	open, err := s.loanRepo.ListOpenByEmployee(ctx, employeeID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, l := range open {
		if _, err := s.loanRepo.GetRepayment(ctx, l.ID, periodID); err == nil {
			continue
		} else if !errors.Is(err, loan.ErrRepaymentNotFound) {
			return decimal.Zero, err
		}

		due := s.dueAmount(l)
		if !due.IsPositive() {
			continue
		}
		if err := s.Commit(ctx, l.ID, periodID, entryID, due); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(due)
	}
	return total, nil
}

// RepaidInPeriod reports, per employee, the sum of loan installments
// committed in the period.
func (s *LoanServiceImpl) RepaidInPeriod(ctx context.Context, periodID string) (map[string]decimal.Decimal, error) {
	repayments, err := s.loanRepo.ListRepaymentsByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, rep := range repayments {
		totals[rep.EmployeeID] = totals[rep.EmployeeID].Add(rep.Amount)
	}
	return totals, nil
}
