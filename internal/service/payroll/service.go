package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/advance"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/employee"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/loan"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/overtime"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/period"
	"github.com/shopspring/decimal"
)

// WorkflowServiceImpl drives periods through the approval sequence and
// owns the two money-moving steps: Process (build entries from master
// data and ledger dues) and Disburse (commit the dues atomically).
type WorkflowServiceImpl struct {
	periodRepo      period.PeriodRepository
	employeeRepo    employee.EmployeeRepository
	advanceService  advance.AdvanceService
	loanService     loan.LoanService
	overtimeService overtime.OvertimeService
	txRunner        ledger.TxRunner
}

func NewWorkflowService(
	periodRepo period.PeriodRepository,
	employeeRepo employee.EmployeeRepository,
	advanceService advance.AdvanceService,
	loanService loan.LoanService,
	overtimeService overtime.OvertimeService,
	txRunner ledger.TxRunner,
) period.WorkflowService {
	return &WorkflowServiceImpl{
		periodRepo:      periodRepo,
		employeeRepo:    employeeRepo,
		advanceService:  advanceService,
		loanService:     loanService,
		overtimeService: overtimeService,
		txRunner:        txRunner,
	}
}

func (s *WorkflowServiceImpl) CreatePeriod(ctx context.Context, req period.CreatePeriodRequest) (period.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return period.PeriodResponse{}, err
	}

	if _, err := s.periodRepo.GetPeriodByMonthYear(ctx, req.Month, req.Year); err == nil {
		return period.PeriodResponse{}, period.ErrPeriodExists
	} else if !errors.Is(err, period.ErrPeriodNotFound) {
		return period.PeriodResponse{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)
	paymentDate, _ := time.Parse("2006-01-02", req.PaymentDate)

	created, err := s.periodRepo.CreatePeriod(ctx, period.PayrollPeriod{
		Name:        req.Name,
		Month:       req.Month,
		Year:        req.Year,
		StartDate:   startDate,
		EndDate:     endDate,
		PaymentDate: paymentDate,
		Status:      period.StatusDraft,
		TotalAmount: decimal.Zero,
	})
	if err != nil {
		return period.PeriodResponse{}, err
	}
	return period.ToPeriodResponse(created), nil
}

func (s *WorkflowServiceImpl) GetPeriod(ctx context.Context, id string) (period.PeriodResponse, error) {
	p, err := s.periodRepo.GetPeriodByID(ctx, id)
	if err != nil {
		return period.PeriodResponse{}, err
	}
	return period.ToPeriodResponse(p), nil
}

func (s *WorkflowServiceImpl) ListPeriods(ctx context.Context, filter period.Filter) ([]period.PeriodResponse, error) {
	periods, err := s.periodRepo.ListPeriods(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]period.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		result = append(result, period.ToPeriodResponse(p))
	}
	return result, nil
}

func (s *WorkflowServiceImpl) ListEntries(ctx context.Context, periodID string) ([]period.EntryResponse, error) {
	if _, err := s.periodRepo.GetPeriodByID(ctx, periodID); err != nil {
		return nil, err
	}

	entries, err := s.periodRepo.ListEntriesByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	result := make([]period.EntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, period.ToEntryResponse(e))
	}
	return result, nil
}

// transition moves the period one step forward. The status write is
// version-checked, so two callers racing the same step means one of them
// loses with ledger.ErrConcurrentModification.
func (s *WorkflowServiceImpl) transition(ctx context.Context, periodID string, from, to period.Status) (period.PeriodResponse, error) {
	p, err := s.periodRepo.GetPeriodByID(ctx, periodID)
	if err != nil {
		return period.PeriodResponse{}, err
	}
	if p.Status != from || !period.CanTransition(p.Status, to) {
		return period.PeriodResponse{}, &period.TransitionError{
			PeriodID: p.ID, Expected: from, Actual: p.Status,
		}
	}

	p.Status = to
	updated, err := s.periodRepo.UpdatePeriod(ctx, p)
	if err != nil {
		return period.PeriodResponse{}, err
	}
	return period.ToPeriodResponse(updated), nil
}

func (s *WorkflowServiceImpl) Initiate(ctx context.Context, periodID string) (period.PeriodResponse, error) {
	return s.transition(ctx, periodID, period.StatusDraft, period.StatusCollecting)
}

// Process builds one entry per active employee: basic salary and
// allowances from the salary structure, overtime from approved records in
// the period's date range, advance and loan deductions from the dues the
// ledgers report. Any employee with unusable master data fails the whole
// run; nothing is half-built.
func (s *WorkflowServiceImpl) Process(ctx context.Context, periodID string) (period.PeriodResponse, error) {
	var result period.PeriodResponse

	err := s.txRunner.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.periodRepo.GetPeriodByID(ctx, periodID)
		if err != nil {
			return err
		}
		if p.Status != period.StatusCollecting {
			return &period.TransitionError{
				PeriodID: p.ID, Expected: period.StatusCollecting, Actual: p.Status,
			}
		}

		if err := s.periodRepo.DeleteEntriesByPeriod(ctx, p.ID); err != nil {
			return err
		}

		employees, err := s.employeeRepo.ListActive(ctx)
		if err != nil {
			return err
		}

		for _, emp := range employees {
			if err := s.buildEntry(ctx, p, emp); err != nil {
				return err
			}
		}

		p.Status = period.StatusProcessing
		p.EmployeeCount = len(employees)
		updated, err := s.periodRepo.UpdatePeriod(ctx, p)
		if err != nil {
			return err
		}

		result = period.ToPeriodResponse(updated)
		return nil
	})
	if err != nil {
		return period.PeriodResponse{}, err
	}
	return result, nil
}

func (s *WorkflowServiceImpl) buildEntry(ctx context.Context, p period.PayrollPeriod, emp employee.Employee) error {
	structure, err := s.employeeRepo.GetActiveSalaryStructure(ctx, emp.ID)
	if errors.Is(err, employee.ErrSalaryStructureNotFound) {
		return &period.IncompleteDataError{EmployeeID: emp.ID, Reason: "no active salary structure"}
	}
	if err != nil {
		return err
	}
	if emp.PaymentMethod == "bank_transfer" && (emp.BankAccount == nil || emp.BankName == nil) {
		return &period.IncompleteDataError{EmployeeID: emp.ID, Reason: "bank transfer without bank details"}
	}

	overtimeRecords, err := s.overtimeService.PullApproved(ctx, emp.ID, p.StartDate, p.EndDate)
	if err != nil {
		return err
	}
	overtimePay := decimal.Zero
	for _, rec := range overtimeRecords {
		overtimePay = overtimePay.Add(rec.CalculatedAmount)
	}

	advanceDue, err := s.advanceService.DueForEmployee(ctx, emp.ID, p.ID)
	if err != nil {
		return err
	}
	loanDue, err := s.loanService.DueForEmployee(ctx, emp.ID, p.ID)
	if err != nil {
		return err
	}

	entry := period.PayrollEntry{
		PeriodID:         p.ID,
		EmployeeID:       emp.ID,
		BasicSalary:      structure.BasicSalary,
		Allowances:       structure.Allowances,
		OvertimePay:      overtimePay,
		AdvanceDeduction: advanceDue,
		LoanDeduction:    loanDue,
		PaymentMethod:    emp.PaymentMethod,
		BankName:         emp.BankName,
		BankAccount:      emp.BankAccount,
		Status:           period.EntryStatusDraft,
	}
	entry.Recalculate()
	if entry.NetSalary.IsNegative() {
		return fmt.Errorf("employee %s: %w", emp.ID, period.ErrNegativeNetSalary)
	}

	created, err := s.periodRepo.CreateEntry(ctx, entry)
	if err != nil {
		return err
	}

	for _, rec := range overtimeRecords {
		if err := s.overtimeService.MarkProcessed(ctx, rec.ID, created.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *WorkflowServiceImpl) HRSubmit(ctx context.Context, periodID string) (period.PeriodResponse, error) {
	return s.transition(ctx, periodID, period.StatusProcessing, period.StatusHRReview)
}

func (s *WorkflowServiceImpl) FinanceSubmit(ctx context.Context, periodID string) (period.PeriodResponse, error) {
	return s.transition(ctx, periodID, period.StatusHRReview, period.StatusFinanceReview)
}

func (s *WorkflowServiceImpl) RequestApproval(ctx context.Context, periodID string) (period.PeriodResponse, error) {
	return s.transition(ctx, periodID, period.StatusFinanceReview, period.StatusPendingApproval)
}

// Approve is idempotent: approving an already-approved period returns it
// unchanged so a retried request cannot fail or double-stamp.
func (s *WorkflowServiceImpl) Approve(ctx context.Context, periodID string, req period.ApproveRequest) (period.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return period.PeriodResponse{}, err
	}

	p, err := s.periodRepo.GetPeriodByID(ctx, periodID)
	if err != nil {
		return period.PeriodResponse{}, err
	}
	if p.Status == period.StatusApproved {
		return period.ToPeriodResponse(p), nil
	}
	if p.Status != period.StatusPendingApproval {
		return period.PeriodResponse{}, &period.TransitionError{
			PeriodID: p.ID, Expected: period.StatusPendingApproval, Actual: p.Status,
		}
	}

	now := time.Now()
	p.Status = period.StatusApproved
	p.ApprovedBy = &req.ApproverID
	p.ApprovedAt = &now

	updated, err := s.periodRepo.UpdatePeriod(ctx, p)
	if err != nil {
		return period.PeriodResponse{}, err
	}
	return period.ToPeriodResponse(updated), nil
}

// Disburse commits every entry's advance and loan dues against their
// ledgers, finalizes the entries, and moves the period to disbursing -- as
// one transaction. A reconciliation check runs after the commits; any
// drift between entry deductions and ledger commits rolls the whole step
// back.
func (s *WorkflowServiceImpl) Disburse(ctx context.Context, periodID string) (period.PeriodResponse, error) {
	var result period.PeriodResponse

	err := s.txRunner.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.periodRepo.GetPeriodByID(ctx, periodID)
		if err != nil {
			return err
		}
		if p.Status != period.StatusApproved {
			return &period.TransitionError{
				PeriodID: p.ID, Expected: period.StatusApproved, Actual: p.Status,
			}
		}

		entries, err := s.periodRepo.ListEntriesByPeriod(ctx, p.ID)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			if _, err := s.advanceService.CommitForEmployee(ctx, entry.EmployeeID, p.ID, entry.ID); err != nil {
				return err
			}
			if _, err := s.loanService.CommitForEmployee(ctx, entry.EmployeeID, p.ID, entry.ID); err != nil {
				return err
			}

			entry.Status = period.EntryStatusFinalized
			if _, err := s.periodRepo.UpdateEntry(ctx, entry); err != nil {
				return err
			}
		}

		report, err := s.reconcile(ctx, p.ID)
		if err != nil {
			return err
		}
		if !report.Consistent {
			return &period.ReconciliationError{PeriodID: p.ID, Mismatches: report.Mismatches}
		}

		p.Status = period.StatusDisbursing
		updated, err := s.periodRepo.UpdatePeriod(ctx, p)
		if err != nil {
			return err
		}

		result = period.ToPeriodResponse(updated)
		return nil
	})
	if err != nil {
		return period.PeriodResponse{}, err
	}
	return result, nil
}

// Complete caches the period total so locked periods can be reported on
// without walking their entries.
func (s *WorkflowServiceImpl) Complete(ctx context.Context, periodID string) (period.PeriodResponse, error) {
	p, err := s.periodRepo.GetPeriodByID(ctx, periodID)
	if err != nil {
		return period.PeriodResponse{}, err
	}
	if p.Status != period.StatusDisbursing {
		return period.PeriodResponse{}, &period.TransitionError{
			PeriodID: p.ID, Expected: period.StatusDisbursing, Actual: p.Status,
		}
	}

	entries, err := s.periodRepo.ListEntriesByPeriod(ctx, p.ID)
	if err != nil {
		return period.PeriodResponse{}, err
	}
	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.NetSalary)
	}

	p.Status = period.StatusCompleted
	p.TotalAmount = total
	p.EmployeeCount = len(entries)

	updated, err := s.periodRepo.UpdatePeriod(ctx, p)
	if err != nil {
		return period.PeriodResponse{}, err
	}
	return period.ToPeriodResponse(updated), nil
}

func (s *WorkflowServiceImpl) Lock(ctx context.Context, periodID string) (period.PeriodResponse, error) {
	return s.transition(ctx, periodID, period.StatusCompleted, period.StatusLocked)
}

// Verify reconciles the period's entry deductions against the ledgers'
// committed repayments. It is a pure read; run it any time after Disburse.
func (s *WorkflowServiceImpl) Verify(ctx context.Context, periodID string) (period.ReconciliationReport, error) {
	if _, err := s.periodRepo.GetPeriodByID(ctx, periodID); err != nil {
		return period.ReconciliationReport{}, err
	}
	return s.reconcile(ctx, periodID)
}

func (s *WorkflowServiceImpl) reconcile(ctx context.Context, periodID string) (period.ReconciliationReport, error) {
	entries, err := s.periodRepo.ListEntriesByPeriod(ctx, periodID)
	if err != nil {
		return period.ReconciliationReport{}, err
	}
	advanceSums, err := s.advanceService.RepaidInPeriod(ctx, periodID)
	if err != nil {
		return period.ReconciliationReport{}, err
	}
	loanSums, err := s.loanService.RepaidInPeriod(ctx, periodID)
	if err != nil {
		return period.ReconciliationReport{}, err
	}

	mismatches := []period.Mismatch{}
	for _, entry := range entries {
		if advSum := advanceSums[entry.EmployeeID]; !entry.AdvanceDeduction.Equal(advSum) {
			mismatches = append(mismatches, period.Mismatch{
				EntryID:    entry.ID,
				EmployeeID: entry.EmployeeID,
				Field:      "advance_deduction",
				EntryValue: entry.AdvanceDeduction,
				LedgerSum:  advSum,
			})
		}
		if loanSum := loanSums[entry.EmployeeID]; !entry.LoanDeduction.Equal(loanSum) {
			mismatches = append(mismatches, period.Mismatch{
				EntryID:    entry.ID,
				EmployeeID: entry.EmployeeID,
				Field:      "loan_deduction",
				EntryValue: entry.LoanDeduction,
				LedgerSum:  loanSum,
			})
		}
	}

	return period.ReconciliationReport{
		PeriodID:   periodID,
		Consistent: len(mismatches) == 0,
		Mismatches: mismatches,
	}, nil
}
