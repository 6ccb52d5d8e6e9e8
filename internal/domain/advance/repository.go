package advance

import "context"

// Filter narrows advance listings.
type Filter struct {
	EmployeeID *string
	Status     *Status
}

// AdvanceRepository is the ledger-store contract for advances and their
// repayment rows. Update is version-checked; CreateRepayment enforces the
// at-most-once-per-period rule and returns ErrDuplicateCommit on a second
// attempt for the same (advance, period).
type AdvanceRepository interface {
	Create(ctx context.Context, a SalaryAdvance) (SalaryAdvance, error)
	GetByID(ctx context.Context, id string) (SalaryAdvance, error)
	List(ctx context.Context, filter Filter) ([]SalaryAdvance, error)
	ListOpenByEmployee(ctx context.Context, employeeID string) ([]SalaryAdvance, error)
	Update(ctx context.Context, a SalaryAdvance) (SalaryAdvance, error)

	CreateRepayment(ctx context.Context, r Repayment) (Repayment, error)
	GetRepayment(ctx context.Context, advanceID, periodID string) (Repayment, error)
	ListRepaymentsByAdvance(ctx context.Context, advanceID string) ([]Repayment, error)
	ListRepaymentsByPeriod(ctx context.Context, periodID string) ([]Repayment, error)
}
