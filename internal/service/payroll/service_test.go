package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/advance"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/employee"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/loan"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/overtime"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/period"
	"github.com/payflow-hq/payroll-backend-go/internal/repository/memory"
	advanceService "github.com/payflow-hq/payroll-backend-go/internal/service/advance"
	loanService "github.com/payflow-hq/payroll-backend-go/internal/service/loan"
	overtimeService "github.com/payflow-hq/payroll-backend-go/internal/service/overtime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type testEnv struct {
	store     *memory.Store
	workflow  period.WorkflowService
	advances  advance.AdvanceService
	loans     loan.LoanService
	overtimes overtime.OvertimeService
	employees employee.EmployeeRepository
	periods   period.PeriodRepository
}

func setupWorkflowTest(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	employeeRepo := memory.NewEmployeeRepository(store)
	periodRepo := memory.NewPeriodRepository(store)
	advanceRepo := memory.NewAdvanceRepository(store)
	loanRepo := memory.NewLoanRepository(store)
	overtimeRepo := memory.NewOvertimeRepository(store)

	advances := advanceService.NewAdvanceService(advanceRepo, employeeRepo, 2)
	loans := loanService.NewLoanService(loanRepo, employeeRepo, 2)
	overtimes := overtimeService.NewOvertimeService(overtimeRepo, employeeRepo, 2, 20, 8)
	workflow := NewWorkflowService(periodRepo, employeeRepo, advances, loans, overtimes, store)

	return &testEnv{
		store:     store,
		workflow:  workflow,
		advances:  advances,
		loans:     loans,
		overtimes: overtimes,
		employees: employeeRepo,
		periods:   periodRepo,
	}
}

func (env *testEnv) addEmployee(t *testing.T, name, basic, allowances, hourlyRate string) string {
	t.Helper()
	ctx := context.Background()

	emp, err := env.employees.Create(ctx, employee.Employee{
		Name:          name,
		PaymentMethod: "cash",
		Active:        true,
	})
	require.NoError(t, err)

	_, err = env.employees.UpsertSalaryStructure(ctx, employee.SalaryStructure{
		EmployeeID:    emp.ID,
		BasicSalary:   d(basic),
		Allowances:    d(allowances),
		HourlyRate:    d(hourlyRate),
		EffectiveDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:        true,
	})
	require.NoError(t, err)
	return emp.ID
}

func (env *testEnv) createJanuaryPeriod(t *testing.T) period.PeriodResponse {
	t.Helper()

	created, err := env.workflow.CreatePeriod(context.Background(), period.CreatePeriodRequest{
		Name:        "January 2026",
		Month:       1,
		Year:        2026,
		StartDate:   "2026-01-01",
		EndDate:     "2026-01-31",
		PaymentDate: "2026-02-01",
	})
	require.NoError(t, err)
	return created
}

func TestWorkflowHappyPath(t *testing.T) {
	ctx := context.Background()
	env := setupWorkflowTest(t)
	empID := env.addEmployee(t, "Eka Saputra", "6000", "500", "50")

	// Approved overtime inside the period's date range: 4h weekend at 50/h.
	otRec, err := env.overtimes.Create(ctx, overtime.CreateOvertimeRequest{
		EmployeeID: empID, Date: "2026-01-10", Hours: d("4"), OvertimeType: "weekend",
	})
	require.NoError(t, err)
	_, err = env.overtimes.Approve(ctx, otRec.ID, overtime.ApproveOvertimeRequest{ApproverID: "hr-1"})
	require.NoError(t, err)

	// A disbursed advance repaying over 3 periods: 300 due this month.
	adv, err := env.advances.Create(ctx, advance.CreateAdvanceRequest{
		EmployeeID: empID, RequestedAmount: d("900"), RepaymentMethod: "installments", Installments: 3,
	})
	require.NoError(t, err)
	_, err = env.advances.Approve(ctx, adv.ID, advance.ApproveAdvanceRequest{ApprovedAmount: d("900"), ApproverID: "hr-1"})
	require.NoError(t, err)
	_, err = env.advances.Disburse(ctx, adv.ID)
	require.NoError(t, err)

	// A disbursed zero-rate loan: 100 due per month.
	ln, err := env.loans.Create(ctx, loan.CreateLoanRequest{
		EmployeeID: empID, LoanType: "personal", RequestedAmount: d("1200"), InterestRate: d("0"), Tenure: 12,
	})
	require.NoError(t, err)
	_, err = env.loans.Approve(ctx, ln.ID, loan.ApproveLoanRequest{ApprovedAmount: d("1200"), ApproverID: "fin-1"})
	require.NoError(t, err)
	_, err = env.loans.Disburse(ctx, ln.ID)
	require.NoError(t, err)

	p := env.createJanuaryPeriod(t)
	assert.Equal(t, "draft", p.Status)

	p2, err := env.workflow.Initiate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "collecting", p2.Status)

	processed, err := env.workflow.Process(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "processing", processed.Status)
	assert.Equal(t, 1, processed.EmployeeCount)

	entries, err := env.workflow.ListEntries(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.True(t, entry.BasicSalary.Equal(d("6000")))
	assert.True(t, entry.Allowances.Equal(d("500")))
	assert.True(t, entry.OvertimePay.Equal(d("400")))
	assert.True(t, entry.AdvanceDeduction.Equal(d("300")))
	assert.True(t, entry.LoanDeduction.Equal(d("100")))
	assert.True(t, entry.GrossSalary.Equal(d("6900")))
	assert.True(t, entry.TotalDeductions.Equal(d("400")))
	assert.True(t, entry.NetSalary.Equal(d("6500")))
	assert.Equal(t, "draft", entry.Status)

	for _, step := range []func(context.Context, string) (period.PeriodResponse, error){
		env.workflow.HRSubmit,
		env.workflow.FinanceSubmit,
		env.workflow.RequestApproval,
	} {
		_, err := step(ctx, p.ID)
		require.NoError(t, err)
	}

	approved, err := env.workflow.Approve(ctx, p.ID, period.ApproveRequest{ApproverID: "dir-1"})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "dir-1", *approved.ApprovedBy)

	disbursing, err := env.workflow.Disburse(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "disbursing", disbursing.Status)

	// Disburse moved the real money: ledger balances dropped and the
	// entry is finalized.
	advAfter, err := env.advances.Get(ctx, adv.ID)
	require.NoError(t, err)
	assert.True(t, advAfter.PaidAmount.Equal(d("300")))
	assert.True(t, advAfter.RemainingAmount.Equal(d("600")))

	loanAfter, err := env.loans.Get(ctx, ln.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loanAfter.InstallmentsPaid)
	assert.True(t, loanAfter.PaidAmount.Equal(d("100")))

	entries, err = env.workflow.ListEntries(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "finalized", entries[0].Status)

	report, err := env.workflow.Verify(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Empty(t, report.Mismatches)

	completed, err := env.workflow.Complete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)
	assert.True(t, completed.TotalAmount.Equal(d("6500")))

	locked, err := env.workflow.Lock(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "locked", locked.Status)
}

func TestWorkflowRejectsSkippedSteps(t *testing.T) {
	ctx := context.Background()
	env := setupWorkflowTest(t)
	env.addEmployee(t, "Fajar Nugroho", "5000", "0", "0")

	p := env.createJanuaryPeriod(t)

	// Draft periods cannot jump ahead.
	_, err := env.workflow.Process(ctx, p.ID)
	assert.ErrorIs(t, err, period.ErrInvalidTransition)

	_, err = env.workflow.Approve(ctx, p.ID, period.ApproveRequest{ApproverID: "dir-1"})
	assert.ErrorIs(t, err, period.ErrInvalidTransition)

	_, err = env.workflow.Disburse(ctx, p.ID)
	assert.ErrorIs(t, err, period.ErrInvalidTransition)

	// And they cannot move backwards either once advanced.
	_, err = env.workflow.Initiate(ctx, p.ID)
	require.NoError(t, err)
	_, err = env.workflow.Initiate(ctx, p.ID)
	assert.ErrorIs(t, err, period.ErrInvalidTransition)
}

func TestWorkflowLockedPeriodRefusesEverything(t *testing.T) {
	ctx := context.Background()
	env := setupWorkflowTest(t)
	env.addEmployee(t, "Gita Permata", "5000", "0", "0")

	p := env.createJanuaryPeriod(t)
	_, err := env.workflow.Initiate(ctx, p.ID)
	require.NoError(t, err)
	_, err = env.workflow.Process(ctx, p.ID)
	require.NoError(t, err)
	_, err = env.workflow.HRSubmit(ctx, p.ID)
	require.NoError(t, err)
	_, err = env.workflow.FinanceSubmit(ctx, p.ID)
	require.NoError(t, err)
	_, err = env.workflow.RequestApproval(ctx, p.ID)
	require.NoError(t, err)
	_, err = env.workflow.Approve(ctx, p.ID, period.ApproveRequest{ApproverID: "dir-1"})
	require.NoError(t, err)
	_, err = env.workflow.Disburse(ctx, p.ID)
	require.NoError(t, err)
	_, err = env.workflow.Complete(ctx, p.ID)
	require.NoError(t, err)
	_, err = env.workflow.Lock(ctx, p.ID)
	require.NoError(t, err)

	_, err = env.workflow.Initiate(ctx, p.ID)
	assert.ErrorIs(t, err, period.ErrPeriodLocked)

	_, err = env.workflow.Approve(ctx, p.ID, period.ApproveRequest{ApproverID: "dir-1"})
	assert.ErrorIs(t, err, period.ErrPeriodLocked)

	_, err = env.workflow.Lock(ctx, p.ID)
	assert.ErrorIs(t, err, period.ErrPeriodLocked)
}

func TestWorkflowApproveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := setupWorkflowTest(t)
	env.addEmployee(t, "Hana Wijaya", "5000", "0", "0")

	p := env.createJanuaryPeriod(t)
	for _, step := range []func(context.Context, string) (period.PeriodResponse, error){
		env.workflow.Initiate, env.workflow.Process,
		env.workflow.HRSubmit, env.workflow.FinanceSubmit, env.workflow.RequestApproval,
	} {
		_, err := step(ctx, p.ID)
		require.NoError(t, err)
	}

	first, err := env.workflow.Approve(ctx, p.ID, period.ApproveRequest{ApproverID: "dir-1"})
	require.NoError(t, err)

	// A retried approval returns the period unchanged.
	second, err := env.workflow.Approve(ctx, p.ID, period.ApproveRequest{ApproverID: "dir-2"})
	require.NoError(t, err)
	assert.Equal(t, "approved", second.Status)
	require.NotNil(t, second.ApprovedBy)
	assert.Equal(t, "dir-1", *second.ApprovedBy)
	assert.Equal(t, *first.ApprovedAt, *second.ApprovedAt)
}

func TestProcessFailsOnIncompleteData(t *testing.T) {
	ctx := context.Background()
	env := setupWorkflowTest(t)
	env.addEmployee(t, "Indra Kusuma", "5000", "0", "0")

	// Second active employee with no salary structure at all.
	_, err := env.employees.Create(ctx, employee.Employee{
		Name: "Joko Santoso", PaymentMethod: "cash", Active: true,
	})
	require.NoError(t, err)

	p := env.createJanuaryPeriod(t)
	_, err = env.workflow.Initiate(ctx, p.ID)
	require.NoError(t, err)

	_, err = env.workflow.Process(ctx, p.ID)
	assert.ErrorIs(t, err, period.ErrIncompleteData)

	// The failed run left nothing behind: no entries, status unchanged.
	got, err := env.workflow.GetPeriod(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "collecting", got.Status)

	entries, err := env.workflow.ListEntries(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDisburseRollsBackOnReconciliationMismatch(t *testing.T) {
	ctx := context.Background()
	env := setupWorkflowTest(t)
	empID := env.addEmployee(t, "Kartika Sari", "5000", "0", "0")

	adv, err := env.advances.Create(ctx, advance.CreateAdvanceRequest{
		EmployeeID: empID, RequestedAmount: d("900"), RepaymentMethod: "installments", Installments: 3,
	})
	require.NoError(t, err)
	_, err = env.advances.Approve(ctx, adv.ID, advance.ApproveAdvanceRequest{ApprovedAmount: d("900"), ApproverID: "hr-1"})
	require.NoError(t, err)
	_, err = env.advances.Disburse(ctx, adv.ID)
	require.NoError(t, err)

	p := env.createJanuaryPeriod(t)
	for _, step := range []func(context.Context, string) (period.PeriodResponse, error){
		env.workflow.Initiate, env.workflow.Process,
		env.workflow.HRSubmit, env.workflow.FinanceSubmit, env.workflow.RequestApproval,
	} {
		_, err := step(ctx, p.ID)
		require.NoError(t, err)
	}
	_, err = env.workflow.Approve(ctx, p.ID, period.ApproveRequest{ApproverID: "dir-1"})
	require.NoError(t, err)

	// A second advance disbursed after processing: its commit makes the
	// ledger sum exceed the entry's frozen deduction.
	late, err := env.advances.Create(ctx, advance.CreateAdvanceRequest{
		EmployeeID: empID, RequestedAmount: d("500"), RepaymentMethod: "single",
	})
	require.NoError(t, err)
	_, err = env.advances.Approve(ctx, late.ID, advance.ApproveAdvanceRequest{ApprovedAmount: d("500"), ApproverID: "hr-1"})
	require.NoError(t, err)
	_, err = env.advances.Disburse(ctx, late.ID)
	require.NoError(t, err)

	_, err = env.workflow.Disburse(ctx, p.ID)
	assert.ErrorIs(t, err, period.ErrReconciliationMismatch)

	// Everything the failed disbursement touched was rolled back.
	got, err := env.workflow.GetPeriod(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Status)

	advAfter, err := env.advances.Get(ctx, adv.ID)
	require.NoError(t, err)
	assert.True(t, advAfter.PaidAmount.IsZero())
	assert.True(t, advAfter.RemainingAmount.Equal(d("900")))

	entries, err := env.workflow.ListEntries(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", entries[0].Status)
}

// racingPeriodRepo simulates a second writer slipping in between the
// workflow's read and its status write.
type racingPeriodRepo struct {
	period.PeriodRepository
	raced bool
}

func (r *racingPeriodRepo) GetPeriodByID(ctx context.Context, id string) (period.PayrollPeriod, error) {
	p, err := r.PeriodRepository.GetPeriodByID(ctx, id)
	if err == nil && !r.raced {
		r.raced = true
		rival := p
		rival.Name = rival.Name + " (rival)"
		if _, uerr := r.PeriodRepository.UpdatePeriod(ctx, rival); uerr != nil {
			return period.PayrollPeriod{}, uerr
		}
	}
	return p, err
}

func TestConcurrentTransitionLosesCleanly(t *testing.T) {
	ctx := context.Background()
	env := setupWorkflowTest(t)
	env.addEmployee(t, "Lina Maharani", "5000", "0", "0")

	p := env.createJanuaryPeriod(t)

	racing := &racingPeriodRepo{PeriodRepository: env.periods}
	workflow := NewWorkflowService(racing, env.employees, env.advances, env.loans, env.overtimes, env.store)

	_, err := workflow.Initiate(ctx, p.ID)
	assert.ErrorIs(t, err, ledger.ErrConcurrentModification)
}

func TestCreatePeriodRejectsDuplicateMonth(t *testing.T) {
	ctx := context.Background()
	env := setupWorkflowTest(t)

	env.createJanuaryPeriod(t)

	_, err := env.workflow.CreatePeriod(ctx, period.CreatePeriodRequest{
		Name:        "January 2026 again",
		Month:       1,
		Year:        2026,
		StartDate:   "2026-01-01",
		EndDate:     "2026-01-31",
		PaymentDate: "2026-02-01",
	})
	assert.ErrorIs(t, err, period.ErrPeriodExists)
}
