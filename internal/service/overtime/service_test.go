package overtime

import (
	"context"
	"testing"
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/employee"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/overtime"
	"github.com/payflow-hq/payroll-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupOvertimeTest(t *testing.T, hourlyRate string) (overtime.OvertimeService, string) {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	employeeRepo := memory.NewEmployeeRepository(store)
	overtimeRepo := memory.NewOvertimeRepository(store)

	emp, err := employeeRepo.Create(ctx, employee.Employee{
		Name:          "Dewi Anggraini",
		PaymentMethod: "cash",
		Active:        true,
	})
	require.NoError(t, err)

	_, err = employeeRepo.UpsertSalaryStructure(ctx, employee.SalaryStructure{
		EmployeeID:    emp.ID,
		BasicSalary:   d("8000"),
		Allowances:    d("500"),
		HourlyRate:    d(hourlyRate),
		EffectiveDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:        true,
	})
	require.NoError(t, err)

	return NewOvertimeService(overtimeRepo, employeeRepo, 2, 20, 8), emp.ID
}

func TestOvertimeApprovalFixesAmount(t *testing.T) {
	ctx := context.Background()
	svc, empID := setupOvertimeTest(t, "50")

	created, err := svc.Create(ctx, overtime.CreateOvertimeRequest{
		EmployeeID:   empID,
		Date:         "2026-01-10",
		Hours:        d("4"),
		OvertimeType: "weekend",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)

	approved, err := svc.Approve(ctx, created.ID, overtime.ApproveOvertimeRequest{ApproverID: "hr-1"})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	assert.True(t, approved.Rate.Equal(d("2")), "weekend multiplier, got %s", approved.Rate)
	assert.True(t, approved.ApprovedHours.Equal(d("4")))
	// 4h x 2.0 x 50/h
	assert.True(t, approved.CalculatedAmount.Equal(d("400")), "got %s", approved.CalculatedAmount)
}

func TestOvertimeApprovalDerivesHourlyRate(t *testing.T) {
	ctx := context.Background()
	// No explicit hourly rate: 8000 / (20 days x 8 hours) = 50/h.
	svc, empID := setupOvertimeTest(t, "0")

	created, err := svc.Create(ctx, overtime.CreateOvertimeRequest{
		EmployeeID:   empID,
		Date:         "2026-01-12",
		Hours:        d("2"),
		OvertimeType: "weekday",
	})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, created.ID, overtime.ApproveOvertimeRequest{ApproverID: "hr-1"})
	require.NoError(t, err)
	assert.True(t, approved.HourlyRate.Equal(d("50")))
	// 2h x 1.5 x 50/h
	assert.True(t, approved.CalculatedAmount.Equal(d("150")), "got %s", approved.CalculatedAmount)
}

func TestOvertimeApproverCanTrimHours(t *testing.T) {
	ctx := context.Background()
	svc, empID := setupOvertimeTest(t, "50")

	created, err := svc.Create(ctx, overtime.CreateOvertimeRequest{
		EmployeeID:   empID,
		Date:         "2026-01-18",
		Hours:        d("6"),
		OvertimeType: "holiday",
	})
	require.NoError(t, err)

	trimmed := d("3")
	approved, err := svc.Approve(ctx, created.ID, overtime.ApproveOvertimeRequest{
		ApproverID:    "hr-1",
		ApprovedHours: &trimmed,
	})
	require.NoError(t, err)
	assert.True(t, approved.ApprovedHours.Equal(d("3")))
	// 3h x 2.5 x 50/h
	assert.True(t, approved.CalculatedAmount.Equal(d("375")))
}

func TestOvertimeConsumedByExactlyOneEntry(t *testing.T) {
	ctx := context.Background()
	svc, empID := setupOvertimeTest(t, "50")

	created, err := svc.Create(ctx, overtime.CreateOvertimeRequest{
		EmployeeID:   empID,
		Date:         "2026-01-10",
		Hours:        d("4"),
		OvertimeType: "weekend",
	})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, created.ID, overtime.ApproveOvertimeRequest{ApproverID: "hr-1"})
	require.NoError(t, err)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	records, err := svc.PullApproved(ctx, empID, from, to)
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.NoError(t, svc.MarkProcessed(ctx, created.ID, "entry-1"))

	err = svc.MarkProcessed(ctx, created.ID, "entry-2")
	assert.ErrorIs(t, err, overtime.ErrAlreadyProcessed)

	// Consumed records drop out of later pulls.
	records, err = svc.PullApproved(ctx, empID, from, to)
	require.NoError(t, err)
	assert.Empty(t, records)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "processed", got.Status)
	require.NotNil(t, got.ProcessedEntryID)
	assert.Equal(t, "entry-1", *got.ProcessedEntryID)
}

func TestOvertimeRejectedNeverPulled(t *testing.T) {
	ctx := context.Background()
	svc, empID := setupOvertimeTest(t, "50")

	created, err := svc.Create(ctx, overtime.CreateOvertimeRequest{
		EmployeeID:   empID,
		Date:         "2026-01-10",
		Hours:        d("4"),
		OvertimeType: "weekend",
	})
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, created.ID, overtime.RejectOvertimeRequest{ApproverID: "hr-1"})
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)
	assert.True(t, rejected.CalculatedAmount.IsZero())

	records, err := svc.PullApproved(ctx, empID,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, records)

	err = svc.MarkProcessed(ctx, created.ID, "entry-1")
	assert.ErrorIs(t, err, overtime.ErrInvalidTransition)
}
