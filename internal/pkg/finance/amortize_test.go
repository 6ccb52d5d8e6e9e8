package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEMI(t *testing.T) {
	t.Run("standard loan", func(t *testing.T) {
		// 12000 at 12% annual over 12 months: i = 0.01
		emi, err := EMI(d("12000"), d("12"), 12, 2)
		require.NoError(t, err)
		assert.True(t, emi.Equal(d("1066.19")), "got %s", emi)
	})

	t.Run("zero rate splits principal evenly", func(t *testing.T) {
		emi, err := EMI(d("1200"), decimal.Zero, 12, 2)
		require.NoError(t, err)
		assert.True(t, emi.Equal(d("100")), "got %s", emi)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := EMI(decimal.Zero, d("12"), 12, 2)
		assert.ErrorIs(t, err, ErrNonPositivePrincipal)

		_, err = EMI(d("1000"), d("12"), 0, 2)
		assert.ErrorIs(t, err, ErrNonPositiveTenure)

		_, err = EMI(d("1000"), d("-1"), 12, 2)
		assert.ErrorIs(t, err, ErrNegativeRate)
	})
}

func TestLoanSchedule(t *testing.T) {
	t.Run("final installment clears the balance exactly", func(t *testing.T) {
		principal := d("12000")
		schedule, err := LoanSchedule(principal, d("12"), 12, 2)
		require.NoError(t, err)
		require.Len(t, schedule.Installments, 12)

		last := schedule.Installments[11]
		assert.True(t, last.Balance.IsZero(), "final balance %s", last.Balance)

		// Totals tie out without any rounding drift.
		assert.True(t, schedule.TotalPayable.Equal(principal.Add(schedule.TotalInterest)),
			"total payable %s, principal+interest %s", schedule.TotalPayable, principal.Add(schedule.TotalInterest))

		sum := decimal.Zero
		principalSum := decimal.Zero
		for _, inst := range schedule.Installments {
			sum = sum.Add(inst.Amount)
			principalSum = principalSum.Add(inst.Principal)
		}
		assert.True(t, sum.Equal(schedule.TotalPayable))
		assert.True(t, principalSum.Equal(principal))
	})

	t.Run("zero rate has no interest", func(t *testing.T) {
		schedule, err := LoanSchedule(d("1200"), decimal.Zero, 12, 2)
		require.NoError(t, err)
		assert.True(t, schedule.TotalInterest.IsZero())
		assert.True(t, schedule.TotalPayable.Equal(d("1200")))
		for _, inst := range schedule.Installments {
			assert.True(t, inst.Amount.Equal(d("100")), "installment %d is %s", inst.Number, inst.Amount)
		}
	})
}

func TestSplitEvenly(t *testing.T) {
	t.Run("last part absorbs the remainder", func(t *testing.T) {
		parts, err := SplitEvenly(d("1000"), 3, 2)
		require.NoError(t, err)
		require.Len(t, parts, 3)
		assert.True(t, parts[0].Equal(d("333.33")))
		assert.True(t, parts[1].Equal(d("333.33")))
		assert.True(t, parts[2].Equal(d("333.34")))

		sum := parts[0].Add(parts[1]).Add(parts[2])
		assert.True(t, sum.Equal(d("1000")))
	})

	t.Run("single part returns the whole amount", func(t *testing.T) {
		parts, err := SplitEvenly(d("250.55"), 1, 2)
		require.NoError(t, err)
		require.Len(t, parts, 1)
		assert.True(t, parts[0].Equal(d("250.55")))
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := SplitEvenly(decimal.Zero, 3, 2)
		assert.ErrorIs(t, err, ErrNonPositivePrincipal)

		_, err = SplitEvenly(d("100"), 0, 2)
		assert.ErrorIs(t, err, ErrNonPositiveTenure)
	})
}

func TestOvertimePay(t *testing.T) {
	// 4 hours on a weekend at 2.0x with a 50/hour base rate
	pay := OvertimePay(d("4"), d("2.0"), d("50"), 2)
	assert.True(t, pay.Equal(d("400")), "got %s", pay)

	// fractional hours round to the minor unit
	pay = OvertimePay(d("1.5"), d("1.5"), d("33.33"), 2)
	assert.True(t, pay.Equal(d("74.99")), "got %s", pay)
}

func TestHourlyRate(t *testing.T) {
	rate := HourlyRate(d("8000"), 20, 8, 2)
	assert.True(t, rate.Equal(d("50")), "got %s", rate)

	assert.True(t, HourlyRate(d("8000"), 0, 0, 2).IsZero())
}
