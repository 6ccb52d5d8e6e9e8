// Package finance holds the pure payroll money math: EMI amortization,
// installment splitting and overtime pay. Everything operates on
// shopspring decimals and rounds half-up to the currency's minor unit.
package finance

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNonPositivePrincipal = errors.New("principal must be positive")
	ErrNonPositiveTenure    = errors.New("tenure must be positive")
	ErrNegativeRate         = errors.New("interest rate must be non-negative")
)

var (
	hundred       = decimal.NewFromInt(100)
	twelve        = decimal.NewFromInt(12)
	one           = decimal.NewFromInt(1)
	ratePrecision = int32(12) // precision kept on the monthly rate
)

// Round rounds a money amount to the minor unit, half up.
// decimal.Round rounds half away from zero, which is identical for the
// non-negative amounts this engine deals in.
func Round(amount decimal.Decimal, places int32) decimal.Decimal {
	return amount.Round(places)
}

// MonthlyRate converts an annual percentage rate to a monthly fraction.
func MonthlyRate(annualRatePct decimal.Decimal) decimal.Decimal {
	return annualRatePct.Div(hundred).DivRound(twelve, ratePrecision)
}

// EMI computes the equated monthly installment for a loan.
// Zero-rate loans amortize as a plain principal split.
func EMI(principal, annualRatePct decimal.Decimal, tenure int, places int32) (decimal.Decimal, error) {
	if !principal.IsPositive() {
		return decimal.Zero, ErrNonPositivePrincipal
	}
	if tenure <= 0 {
		return decimal.Zero, ErrNonPositiveTenure
	}
	if annualRatePct.IsNegative() {
		return decimal.Zero, ErrNegativeRate
	}

	n := decimal.NewFromInt(int64(tenure))
	i := MonthlyRate(annualRatePct)
	if i.IsZero() {
		return Round(principal.Div(n), places), nil
	}

	// EMI = P * i * (1+i)^n / ((1+i)^n - 1)
	factor := one.Add(i).Pow(n)
	emi := principal.Mul(i).Mul(factor).Div(factor.Sub(one))
	return Round(emi, places), nil
}

// Installment is one row of an amortization schedule.
type Installment struct {
	Number    int
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Amount    decimal.Decimal
	Balance   decimal.Decimal // principal outstanding after this installment
}

// Schedule is a full amortization plan. TotalPayable always equals
// principal plus TotalInterest exactly: the final installment absorbs
// every rounding remainder.
type Schedule struct {
	EMI           decimal.Decimal
	Installments  []Installment
	TotalInterest decimal.Decimal
	TotalPayable  decimal.Decimal
}

// LoanSchedule expands a loan into its per-period installments.
func LoanSchedule(principal, annualRatePct decimal.Decimal, tenure int, places int32) (Schedule, error) {
	emi, err := EMI(principal, annualRatePct, tenure, places)
	if err != nil {
		return Schedule{}, err
	}

	i := MonthlyRate(annualRatePct)
	balance := principal
	totalInterest := decimal.Zero
	totalPayable := decimal.Zero
	installments := make([]Installment, 0, tenure)

	for k := 1; k <= tenure; k++ {
		interest := Round(balance.Mul(i), places)
		var principalPart, amount decimal.Decimal
		if k == tenure {
			// Final installment clears the balance exactly.
			principalPart = balance
			amount = balance.Add(interest)
		} else {
			principalPart = emi.Sub(interest)
			if principalPart.GreaterThan(balance) {
				principalPart = balance
			}
			amount = principalPart.Add(interest)
		}
		balance = balance.Sub(principalPart)

		totalInterest = totalInterest.Add(interest)
		totalPayable = totalPayable.Add(amount)
		installments = append(installments, Installment{
			Number:    k,
			Interest:  interest,
			Principal: principalPart,
			Amount:    amount,
			Balance:   balance,
		})
	}

	return Schedule{
		EMI:           emi,
		Installments:  installments,
		TotalInterest: totalInterest,
		TotalPayable:  totalPayable,
	}, nil
}

// SplitEvenly divides an amount into parts equal installments, the last
// one absorbing the rounding remainder so the parts sum back exactly.
func SplitEvenly(amount decimal.Decimal, parts int, places int32) ([]decimal.Decimal, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositivePrincipal
	}
	if parts <= 0 {
		return nil, ErrNonPositiveTenure
	}

	per := Round(amount.Div(decimal.NewFromInt(int64(parts))), places)
	result := make([]decimal.Decimal, parts)
	running := decimal.Zero
	for k := 0; k < parts-1; k++ {
		result[k] = per
		running = running.Add(per)
	}
	result[parts-1] = amount.Sub(running)
	return result, nil
}

// OvertimePay computes pay for approved overtime hours.
func OvertimePay(hours, multiplier, hourlyRate decimal.Decimal, places int32) decimal.Decimal {
	return Round(hours.Mul(multiplier).Mul(hourlyRate), places)
}

// HourlyRate derives a base hourly rate from a monthly basic salary.
func HourlyRate(basicMonthly decimal.Decimal, workDaysPerMonth, workHoursPerDay int, places int32) decimal.Decimal {
	hours := decimal.NewFromInt(int64(workDaysPerMonth * workHoursPerDay))
	if hours.IsZero() {
		return decimal.Zero
	}
	return Round(basicMonthly.Div(hours), places)
}
