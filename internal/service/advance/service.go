package advance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/advance"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/employee"
	"github.com/payflow-hq/payroll-backend-go/internal/pkg/finance"
	"github.com/shopspring/decimal"
)

type AdvanceServiceImpl struct {
	advanceRepo    advance.AdvanceRepository
	employeeRepo   employee.EmployeeRepository
	currencyPlaces int32
}

func NewAdvanceService(
	advanceRepo advance.AdvanceRepository,
	employeeRepo employee.EmployeeRepository,
	currencyPlaces int32,
) advance.AdvanceService {
	return &AdvanceServiceImpl{
		advanceRepo:    advanceRepo,
		employeeRepo:   employeeRepo,
		currencyPlaces: currencyPlaces,
	}
}

func (s *AdvanceServiceImpl) Create(ctx context.Context, req advance.CreateAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	if !emp.Active {
		return advance.AdvanceResponse{}, employee.ErrEmployeeInactive
	}

	installments := req.Installments
	if advance.RepaymentMethod(req.RepaymentMethod) == advance.RepaymentSingle {
		installments = 1
	}

	created, err := s.advanceRepo.Create(ctx, advance.SalaryAdvance{
		EmployeeID:      req.EmployeeID,
		RequestedAmount: req.RequestedAmount,
		RepaymentMethod: advance.RepaymentMethod(req.RepaymentMethod),
		Installments:    installments,
		PaidAmount:      decimal.Zero,
		RemainingAmount: decimal.Zero,
		Reason:          req.Reason,
		Status:          advance.StatusPending,
	})
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	return advance.ToResponse(created), nil
}

func (s *AdvanceServiceImpl) Get(ctx context.Context, id string) (advance.AdvanceResponse, error) {
	a, err := s.advanceRepo.GetByID(ctx, id)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	return advance.ToResponse(a), nil
}

func (s *AdvanceServiceImpl) List(ctx context.Context, filter advance.Filter) ([]advance.AdvanceResponse, error) {
	advances, err := s.advanceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]advance.AdvanceResponse, 0, len(advances))
	for _, a := range advances {
		result = append(result, advance.ToResponse(a))
	}
	return result, nil
}

func (s *AdvanceServiceImpl) Approve(ctx context.Context, id string, req advance.ApproveAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	a, err := s.advanceRepo.GetByID(ctx, id)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	if a.Status != advance.StatusPending {
		return advance.AdvanceResponse{}, &advance.TransitionError{
			AdvanceID: a.ID, Expected: advance.StatusPending, Actual: a.Status,
		}
	}

	now := time.Now()
	a.ApprovedAmount = req.ApprovedAmount
	a.RemainingAmount = req.ApprovedAmount
	a.ApprovedBy = &req.ApproverID
	a.ApprovedAt = &now
	a.Status = advance.StatusApproved

	updated, err := s.advanceRepo.Update(ctx, a)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	return advance.ToResponse(updated), nil
}

func (s *AdvanceServiceImpl) Reject(ctx context.Context, id string, req advance.RejectAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	a, err := s.advanceRepo.GetByID(ctx, id)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	if a.Status != advance.StatusPending {
		return advance.AdvanceResponse{}, &advance.TransitionError{
			AdvanceID: a.ID, Expected: advance.StatusPending, Actual: a.Status,
		}
	}

	now := time.Now()
	a.ApprovedBy = &req.ApproverID
	a.ApprovedAt = &now
	a.RejectionReason = req.Reason
	a.Status = advance.StatusRejected
	// RemainingAmount stays zero for rejected advances.

	updated, err := s.advanceRepo.Update(ctx, a)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	return advance.ToResponse(updated), nil
}

func (s *AdvanceServiceImpl) Disburse(ctx context.Context, id string) (advance.AdvanceResponse, error) {
	a, err := s.advanceRepo.GetByID(ctx, id)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	if a.Status != advance.StatusApproved {
		return advance.AdvanceResponse{}, &advance.TransitionError{
			AdvanceID: a.ID, Expected: advance.StatusApproved, Actual: a.Status,
		}
	}

	now := time.Now()
	a.DisbursedAt = &now
	a.Status = advance.StatusDisbursed

	updated, err := s.advanceRepo.Update(ctx, a)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	return advance.ToResponse(updated), nil
}

// PullDue answers what the advance owes for the given period. It is a
// dry-run query apart from the disbursed -> repaying flip on first pull.
func (s *AdvanceServiceImpl) PullDue(ctx context.Context, advanceID, periodID string) (decimal.Decimal, error) {
	a, err := s.advanceRepo.GetByID(ctx, advanceID)
	if err != nil {
		return decimal.Zero, err
	}
	if a.Status != advance.StatusDisbursed && a.Status != advance.StatusRepaying {
		return decimal.Zero, &advance.TransitionError{
			AdvanceID: a.ID, Expected: advance.StatusDisbursed, Actual: a.Status,
		}
	}

	// Already committed for this period: nothing further due.
	if _, err := s.advanceRepo.GetRepayment(ctx, advanceID, periodID); err == nil {
		return decimal.Zero, nil
	} else if !errors.Is(err, advance.ErrRepaymentNotFound) {
		return decimal.Zero, err
	}

	due, err := s.dueAmount(ctx, a)
	if err != nil {
		return decimal.Zero, err
	}

	if a.Status == advance.StatusDisbursed {
		a.Status = advance.StatusRepaying
		if _, err := s.advanceRepo.Update(ctx, a); err != nil {
			return decimal.Zero, err
		}
	}
	return due, nil
}

// dueAmount computes the scheduled deduction for the next unpaid period.
func (s *AdvanceServiceImpl) dueAmount(ctx context.Context, a advance.SalaryAdvance) (decimal.Decimal, error) {
	if !a.RemainingAmount.IsPositive() {
		return decimal.Zero, nil
	}
	if a.RepaymentMethod == advance.RepaymentSingle {
		return a.RemainingAmount, nil
	}

	repayments, err := s.advanceRepo.ListRepaymentsByAdvance(ctx, a.ID)
	if err != nil {
		return decimal.Zero, err
	}
	paidCount := len(repayments)
	if paidCount >= a.Installments {
		return a.RemainingAmount, nil
	}

	amounts, err := finance.SplitEvenly(a.ApprovedAmount, a.Installments, s.currencyPlaces)
	if err != nil {
		return decimal.Zero, err
	}
	due := amounts[paidCount]
	if due.GreaterThan(a.RemainingAmount) {
		due = a.RemainingAmount
	}
	return due, nil
}

// DueForEmployee sums the period's due amounts across the employee's open
// advances.
func (s *AdvanceServiceImpl) DueForEmployee(ctx context.Context, employeeID, periodID string) (decimal.Decimal, error) {
	open, err := s.advanceRepo.ListOpenByEmployee(ctx, employeeID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, a := range open {
		due, err := s.PullDue(ctx, a.ID, periodID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(due)
	}
	return total, nil
}

// Commit records a repayment against the advance. At most one commit may
// exist per (advance, period); a second attempt fails with
// ErrDuplicateCommit and leaves the advance untouched.
func (s *AdvanceServiceImpl) Commit(ctx context.Context, advanceID, periodID, entryID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("advance %s: commit amount must be positive", advanceID)
	}

	a, err := s.advanceRepo.GetByID(ctx, advanceID)
	if err != nil {
		return err
	}
	if a.Status != advance.StatusDisbursed && a.Status != advance.StatusRepaying {
		return &advance.TransitionError{
			AdvanceID: a.ID, Expected: advance.StatusRepaying, Actual: a.Status,
		}
	}
	if amount.GreaterThan(a.RemainingAmount) {
		return fmt.Errorf("advance %s: %w", advanceID, advance.ErrExcessiveCommit)
	}

	// The unique (advance, period) rule lives in the store; a duplicate
	// surfaces here before any balance moves.
	if _, err := s.advanceRepo.CreateRepayment(ctx, advance.Repayment{
		AdvanceID:  advanceID,
		PeriodID:   periodID,
		EmployeeID: a.EmployeeID,
		EntryID:    entryID,
		Amount:     amount,
	}); err != nil {
		return err
	}

	a.PaidAmount = a.PaidAmount.Add(amount)
	a.RemainingAmount = a.ApprovedAmount.Sub(a.PaidAmount)
	if a.RemainingAmount.IsZero() {
		a.Status = advance.StatusCompleted
	} else if a.Status == advance.StatusDisbursed {
		a.Status = advance.StatusRepaying
	}

	_, err = s.advanceRepo.Update(ctx, a)
	return err
}

// CommitForEmployee commits the period's due amount for every open advance
// of the employee and returns the total committed.
func (s *AdvanceServiceImpl) CommitForEmployee(ctx context.Context, employeeID, periodID, entryID string) (decimal.Decimal, error) {
	open, err := s.advanceRepo.ListOpenByEmployee(ctx, employeeID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, a := range open {
		// Skip advances already settled for this period.
		if _, err := s.advanceRepo.GetRepayment(ctx, a.ID, periodID); err == nil {
			continue
		} else if !errors.Is(err, advance.ErrRepaymentNotFound) {
			return decimal.Zero, err
		}

		due, err := s.dueAmount(ctx, a)
		if err != nil {
			return decimal.Zero, err
		}
		if !due.IsPositive() {
			continue
		}
		if err := s.Commit(ctx, a.ID, periodID, entryID, due); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(due)
	}
	return total, nil
}

// RepaidInPeriod reports, per employee, the sum of advance repayments
// committed in the period. The reconciliation checker compares this
// against the payroll entries' advance deduction fields.
func (s *AdvanceServiceImpl) RepaidInPeriod(ctx context.Context, periodID string) (map[string]decimal.Decimal, error) {
	repayments, err := s.advanceRepo.ListRepaymentsByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, rep := range repayments {
		totals[rep.EmployeeID] = totals[rep.EmployeeID].Add(rep.Amount)
	}
	return totals, nil
}
