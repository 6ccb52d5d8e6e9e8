package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/advance"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/period"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPeriod(t *testing.T, repo period.PeriodRepository, month int) period.PayrollPeriod {
	t.Helper()

	p, err := repo.CreatePeriod(context.Background(), period.PayrollPeriod{
		Name:        "Test Period",
		Month:       month,
		Year:        2026,
		StartDate:   time.Date(2026, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, time.Month(month), 28, 0, 0, 0, 0, time.UTC),
		PaymentDate: time.Date(2026, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC),
		Status:      period.StatusDraft,
		TotalAmount: decimal.Zero,
	})
	require.NoError(t, err)
	return p
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewPeriodRepository(store)

	p := newTestPeriod(t, repo, 1)

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		p.Status = period.StatusCollecting
		if _, err := repo.UpdatePeriod(ctx, p); err != nil {
			return err
		}
		if _, err := repo.CreateEntry(ctx, period.PayrollEntry{
			PeriodID:   p.ID,
			EmployeeID: "emp-1",
			Status:     period.EntryStatusDraft,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.GetPeriodByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, period.StatusDraft, got.Status)
	assert.Equal(t, int64(1), got.Version)

	entries, err := repo.ListEntriesByPeriod(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWithinTxCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewPeriodRepository(store)

	p := newTestPeriod(t, repo, 2)

	err := store.WithinTx(ctx, func(ctx context.Context) error {
		p.Status = period.StatusCollecting
		updated, err := repo.UpdatePeriod(ctx, p)
		if err != nil {
			return err
		}
		p = updated
		return nil
	})
	require.NoError(t, err)

	got, err := repo.GetPeriodByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, period.StatusCollecting, got.Status)
	assert.Equal(t, int64(2), got.Version)
}

func TestUpdateRejectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewPeriodRepository(store)

	p := newTestPeriod(t, repo, 3)
	stale := p

	p.Status = period.StatusCollecting
	_, err := repo.UpdatePeriod(ctx, p)
	require.NoError(t, err)

	stale.Status = period.StatusCollecting
	_, err = repo.UpdatePeriod(ctx, stale)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrConcurrentModification)

	var conflict *ledger.VersionConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, p.ID, conflict.ID)
}

func TestCreateRepaymentEnforcesPeriodUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewAdvanceRepository(store)

	a, err := repo.Create(ctx, advance.SalaryAdvance{
		EmployeeID:      "emp-1",
		RequestedAmount: decimal.RequireFromString("900"),
		Status:          advance.StatusRepaying,
	})
	require.NoError(t, err)

	_, err = repo.CreateRepayment(ctx, advance.Repayment{
		AdvanceID: a.ID,
		PeriodID:  "period-1",
		EntryID:   "entry-1",
		Amount:    decimal.RequireFromString("300"),
	})
	require.NoError(t, err)

	_, err = repo.CreateRepayment(ctx, advance.Repayment{
		AdvanceID: a.ID,
		PeriodID:  "period-1",
		EntryID:   "entry-1",
		Amount:    decimal.RequireFromString("300"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, advance.ErrDuplicateCommit)

	// A different period is a different commit slot.
	_, err = repo.CreateRepayment(ctx, advance.Repayment{
		AdvanceID: a.ID,
		PeriodID:  "period-2",
		EntryID:   "entry-2",
		Amount:    decimal.RequireFromString("300"),
	})
	require.NoError(t, err)

	reps, err := repo.ListRepaymentsByAdvance(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, reps, 2)
}

func TestCreatePeriodRejectsDuplicateMonthYear(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewPeriodRepository(store)

	newTestPeriod(t, repo, 4)

	_, err := repo.CreatePeriod(ctx, period.PayrollPeriod{
		Name:   "Again",
		Month:  4,
		Year:   2026,
		Status: period.StatusDraft,
	})
	assert.ErrorIs(t, err, period.ErrPeriodExists)
}
