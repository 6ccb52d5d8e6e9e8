package advance

import (
	"context"
	"testing"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/advance"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/employee"
	"github.com/payflow-hq/payroll-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupAdvanceTest(t *testing.T) (advance.AdvanceService, string) {
	t.Helper()

	store := memory.NewStore()
	employeeRepo := memory.NewEmployeeRepository(store)
	advanceRepo := memory.NewAdvanceRepository(store)

	emp, err := employeeRepo.Create(context.Background(), employee.Employee{
		Name:          "Ana Pratama",
		PaymentMethod: "cash",
		Active:        true,
	})
	require.NoError(t, err)

	return NewAdvanceService(advanceRepo, employeeRepo, 2), emp.ID
}

func requestAdvance(t *testing.T, svc advance.AdvanceService, employeeID, method string, installments int, amount string) advance.AdvanceResponse {
	t.Helper()

	created, err := svc.Create(context.Background(), advance.CreateAdvanceRequest{
		EmployeeID:      employeeID,
		RequestedAmount: d(amount),
		RepaymentMethod: method,
		Installments:    installments,
	})
	require.NoError(t, err)
	return created
}

func TestAdvanceSingleRepaymentLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, empID := setupAdvanceTest(t)

	created := requestAdvance(t, svc, empID, "single", 0, "1000")
	assert.Equal(t, "pending", created.Status)

	approved, err := svc.Approve(ctx, created.ID, advance.ApproveAdvanceRequest{
		ApprovedAmount: d("1000"),
		ApproverID:     "hr-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	assert.True(t, approved.RemainingAmount.Equal(d("1000")))

	disbursed, err := svc.Disburse(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "disbursed", disbursed.Status)

	// Single method: the whole remaining amount is due at once.
	due, err := svc.PullDue(ctx, created.ID, "period-1")
	require.NoError(t, err)
	assert.True(t, due.Equal(d("1000")))

	// First pull flips the advance into repaying.
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "repaying", got.Status)

	require.NoError(t, svc.Commit(ctx, created.ID, "period-1", "entry-1", due))

	got, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.True(t, got.RemainingAmount.IsZero())
	assert.True(t, got.PaidAmount.Equal(d("1000")))
}

func TestAdvanceInstallmentSchedule(t *testing.T) {
	ctx := context.Background()
	svc, empID := setupAdvanceTest(t)

	created := requestAdvance(t, svc, empID, "installments", 3, "1000")
	_, err := svc.Approve(ctx, created.ID, advance.ApproveAdvanceRequest{ApprovedAmount: d("1000"), ApproverID: "hr-1"})
	require.NoError(t, err)
	_, err = svc.Disburse(ctx, created.ID)
	require.NoError(t, err)

	// 1000 over 3 periods: 333.33, 333.33, then 333.34 absorbing the
	// rounding remainder.
	expected := []string{"333.33", "333.33", "333.34"}
	for i, want := range expected {
		periodID := string(rune('a' + i))
		due, err := svc.PullDue(ctx, created.ID, periodID)
		require.NoError(t, err)
		assert.True(t, due.Equal(d(want)), "period %d: want %s, got %s", i+1, want, due)
		require.NoError(t, svc.Commit(ctx, created.ID, periodID, "entry-"+periodID, due))
	}

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.True(t, got.RemainingAmount.IsZero())
}

func TestAdvanceCommitIsOncePerPeriod(t *testing.T) {
	ctx := context.Background()
	svc, empID := setupAdvanceTest(t)

	created := requestAdvance(t, svc, empID, "installments", 3, "900")
	_, err := svc.Approve(ctx, created.ID, advance.ApproveAdvanceRequest{ApprovedAmount: d("900"), ApproverID: "hr-1"})
	require.NoError(t, err)
	_, err = svc.Disburse(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Commit(ctx, created.ID, "period-1", "entry-1", d("300")))

	// Second commit for the same period must fail and leave the balance
	// untouched.
	err = svc.Commit(ctx, created.ID, "period-1", "entry-1", d("300"))
	assert.ErrorIs(t, err, advance.ErrDuplicateCommit)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.Equal(d("300")))
	assert.True(t, got.RemainingAmount.Equal(d("600")))

	// A committed period reports nothing further due.
	due, err := svc.PullDue(ctx, created.ID, "period-1")
	require.NoError(t, err)
	assert.True(t, due.IsZero())
}

func TestAdvanceCommitCannotExceedRemaining(t *testing.T) {
	ctx := context.Background()
	svc, empID := setupAdvanceTest(t)

	created := requestAdvance(t, svc, empID, "single", 0, "500")
	_, err := svc.Approve(ctx, created.ID, advance.ApproveAdvanceRequest{ApprovedAmount: d("500"), ApproverID: "hr-1"})
	require.NoError(t, err)
	_, err = svc.Disburse(ctx, created.ID)
	require.NoError(t, err)

	err = svc.Commit(ctx, created.ID, "period-1", "entry-1", d("500.01"))
	assert.ErrorIs(t, err, advance.ErrExcessiveCommit)
}

func TestAdvanceRejectIsTerminal(t *testing.T) {
	ctx := context.Background()
	svc, empID := setupAdvanceTest(t)

	created := requestAdvance(t, svc, empID, "single", 0, "500")

	reason := "over policy limit"
	rejected, err := svc.Reject(ctx, created.ID, advance.RejectAdvanceRequest{ApproverID: "hr-1", Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)

	_, err = svc.Approve(ctx, created.ID, advance.ApproveAdvanceRequest{ApprovedAmount: d("500"), ApproverID: "hr-1"})
	assert.ErrorIs(t, err, advance.ErrInvalidTransition)

	_, err = svc.Disburse(ctx, created.ID)
	assert.ErrorIs(t, err, advance.ErrInvalidTransition)
}

func TestAdvanceCreateRequiresActiveEmployee(t *testing.T) {
	ctx := context.Background()

	store := memory.NewStore()
	employeeRepo := memory.NewEmployeeRepository(store)
	svc := NewAdvanceService(memory.NewAdvanceRepository(store), employeeRepo, 2)

	emp, err := employeeRepo.Create(ctx, employee.Employee{Name: "Budi", PaymentMethod: "cash", Active: false})
	require.NoError(t, err)

	_, err = svc.Create(ctx, advance.CreateAdvanceRequest{
		EmployeeID:      emp.ID,
		RequestedAmount: d("100"),
		RepaymentMethod: "single",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}
