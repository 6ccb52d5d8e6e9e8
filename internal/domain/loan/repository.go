package loan

import "context"

// Filter narrows loan listings.
type Filter struct {
	EmployeeID *string
	Status     *Status
}

// LoanRepository is the ledger-store contract for loans and their
// repayment rows. Update is version-checked; CreateRepayment enforces the
// at-most-once-per-period rule and returns ErrDuplicateCommit on a second
// attempt for the same (loan, period).
type LoanRepository interface {
	Create(ctx context.Context, l EmployeeLoan) (EmployeeLoan, error)
	GetByID(ctx context.Context, id string) (EmployeeLoan, error)
	List(ctx context.Context, filter Filter) ([]EmployeeLoan, error)
	ListOpenByEmployee(ctx context.Context, employeeID string) ([]EmployeeLoan, error)
	Update(ctx context.Context, l EmployeeLoan) (EmployeeLoan, error)

	CreateRepayment(ctx context.Context, r Repayment) (Repayment, error)
	GetRepayment(ctx context.Context, loanID, periodID string) (Repayment, error)
	ListRepaymentsByLoan(ctx context.Context, loanID string) ([]Repayment, error)
	ListRepaymentsByPeriod(ctx context.Context, periodID string) ([]Repayment, error)
}
