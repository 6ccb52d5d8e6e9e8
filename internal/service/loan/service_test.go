package loan

import (
	"context"
	"fmt"
	"testing"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/employee"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/loan"
	"github.com/payflow-hq/payroll-backend-go/internal/pkg/finance"
	"github.com/payflow-hq/payroll-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupLoanTest(t *testing.T) (loan.LoanService, string) {
	t.Helper()

	store := memory.NewStore()
	employeeRepo := memory.NewEmployeeRepository(store)
	loanRepo := memory.NewLoanRepository(store)

	emp, err := employeeRepo.Create(context.Background(), employee.Employee{
		Name:          "Citra Lestari",
		PaymentMethod: "cash",
		Active:        true,
	})
	require.NoError(t, err)

	return NewLoanService(loanRepo, employeeRepo, 2), emp.ID
}

func disburseLoan(t *testing.T, svc loan.LoanService, employeeID, amount, rate string, tenure int) loan.LoanResponse {
	t.Helper()
	ctx := context.Background()

	created, err := svc.Create(ctx, loan.CreateLoanRequest{
		EmployeeID:      employeeID,
		LoanType:        "personal",
		RequestedAmount: d(amount),
		InterestRate:    d(rate),
		Tenure:          tenure,
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID, loan.ApproveLoanRequest{ApprovedAmount: d(amount), ApproverID: "fin-1"})
	require.NoError(t, err)

	disbursed, err := svc.Disburse(ctx, created.ID)
	require.NoError(t, err)
	return disbursed
}

func TestLoanDisburseFixesAmortizationPlan(t *testing.T) {
	svc, empID := setupLoanTest(t)

	disbursed := disburseLoan(t, svc, empID, "12000", "12", 12)
	assert.Equal(t, "disbursed", disbursed.Status)
	assert.True(t, disbursed.MonthlyDeduction.Equal(d("1066.19")), "EMI %s", disbursed.MonthlyDeduction)

	schedule, err := finance.LoanSchedule(d("12000"), d("12"), 12, 2)
	require.NoError(t, err)
	assert.True(t, disbursed.TotalPayable.Equal(schedule.TotalPayable))
	assert.True(t, disbursed.RemainingAmount.Equal(schedule.TotalPayable))
}

func TestLoanFullRepaymentReachesExactlyZero(t *testing.T) {
	ctx := context.Background()
	svc, empID := setupLoanTest(t)

	disbursed := disburseLoan(t, svc, empID, "12000", "12", 12)

	for k := 1; k <= 12; k++ {
		periodID := fmt.Sprintf("period-%d", k)
		due, err := svc.PullDue(ctx, disbursed.ID, periodID)
		require.NoError(t, err)
		require.True(t, due.IsPositive(), "installment %d has nothing due", k)
		require.NoError(t, svc.Commit(ctx, disbursed.ID, periodID, "entry-"+periodID, due))
	}

	got, err := svc.Get(ctx, disbursed.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, 12, got.InstallmentsPaid)
	assert.True(t, got.RemainingAmount.IsZero(), "remaining %s", got.RemainingAmount)
	assert.True(t, got.PaidAmount.Equal(got.TotalPayable))
}

func TestLoanFinalInstallmentAbsorbsRemainder(t *testing.T) {
	ctx := context.Background()
	svc, empID := setupLoanTest(t)

	// 1000 over 3 months at 0%: EMI rounds to 333.33, so the last pull
	// must cover the leftover 333.34.
	disbursed := disburseLoan(t, svc, empID, "1000", "0", 3)
	assert.True(t, disbursed.MonthlyDeduction.Equal(d("333.33")))

	for k, want := range []string{"333.33", "333.33", "333.34"} {
		periodID := fmt.Sprintf("period-%d", k+1)
		due, err := svc.PullDue(ctx, disbursed.ID, periodID)
		require.NoError(t, err)
		assert.True(t, due.Equal(d(want)), "installment %d: want %s, got %s", k+1, want, due)
		require.NoError(t, svc.Commit(ctx, disbursed.ID, periodID, "entry-x", due))
	}

	got, err := svc.Get(ctx, disbursed.ID)
	require.NoError(t, err)
	assert.True(t, got.RemainingAmount.IsZero())
}

func TestLoanCommitIsOncePerPeriod(t *testing.T) {
	ctx := context.Background()
	svc, empID := setupLoanTest(t)

	disbursed := disburseLoan(t, svc, empID, "1200", "0", 12)

	due, err := svc.PullDue(ctx, disbursed.ID, "period-1")
	require.NoError(t, err)
	require.NoError(t, svc.Commit(ctx, disbursed.ID, "period-1", "entry-1", due))

	err = svc.Commit(ctx, disbursed.ID, "period-1", "entry-1", due)
	assert.ErrorIs(t, err, loan.ErrDuplicateCommit)

	got, err := svc.Get(ctx, disbursed.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.InstallmentsPaid)
	assert.True(t, got.PaidAmount.Equal(d("100")))

	again, err := svc.PullDue(ctx, disbursed.ID, "period-1")
	require.NoError(t, err)
	assert.True(t, again.IsZero())
}

func TestLoanFirstPullActivates(t *testing.T) {
	ctx := context.Background()
	svc, empID := setupLoanTest(t)

	disbursed := disburseLoan(t, svc, empID, "1200", "0", 12)

	_, err := svc.PullDue(ctx, disbursed.ID, "period-1")
	require.NoError(t, err)

	got, err := svc.Get(ctx, disbursed.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", got.Status)
}

func TestLoanDeclareDefault(t *testing.T) {
	ctx := context.Background()
	svc, empID := setupLoanTest(t)

	disbursed := disburseLoan(t, svc, empID, "1200", "0", 12)

	// Default can only be declared on an active loan.
	_, err := svc.DeclareDefault(ctx, disbursed.ID)
	assert.ErrorIs(t, err, loan.ErrInvalidTransition)

	_, err = svc.PullDue(ctx, disbursed.ID, "period-1")
	require.NoError(t, err)

	defaulted, err := svc.DeclareDefault(ctx, disbursed.ID)
	require.NoError(t, err)
	assert.Equal(t, "defaulted", defaulted.Status)

	// A defaulted loan owes nothing through payroll.
	_, err = svc.PullDue(ctx, disbursed.ID, "period-2")
	assert.ErrorIs(t, err, loan.ErrInvalidTransition)
}

func TestLoanSchedulePreviewIsDryRun(t *testing.T) {
	ctx := context.Background()
	svc, empID := setupLoanTest(t)

	created, err := svc.Create(ctx, loan.CreateLoanRequest{
		EmployeeID:      empID,
		LoanType:        "personal",
		RequestedAmount: d("12000"),
		InterestRate:    d("12"),
		Tenure:          12,
	})
	require.NoError(t, err)

	// Preview works before approval, from the requested amount.
	schedule, err := svc.Schedule(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, schedule.Installments, 12)
	assert.True(t, schedule.EMI.Equal(d("1066.19")))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)
	assert.True(t, got.MonthlyDeduction.IsZero())
}
