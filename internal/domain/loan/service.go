package loan

import (
	"context"

	"github.com/shopspring/decimal"
)

// LoanService drives the employee loan lifecycle.
//
// Schedule is a dry-run preview; PullDue answers "what installment is due
// this period" without recording anything (only the first pull flips a
// disbursed loan to active); Commit records the installment and is safe to
// call at most once per (loan, period).
type LoanService interface {
	Create(ctx context.Context, req CreateLoanRequest) (LoanResponse, error)
	Get(ctx context.Context, id string) (LoanResponse, error)
	List(ctx context.Context, filter Filter) ([]LoanResponse, error)
	Approve(ctx context.Context, id string, req ApproveLoanRequest) (LoanResponse, error)
	Reject(ctx context.Context, id string, req RejectLoanRequest) (LoanResponse, error)
	Disburse(ctx context.Context, id string) (LoanResponse, error)
	DeclareDefault(ctx context.Context, id string) (LoanResponse, error)
	Schedule(ctx context.Context, id string) (ScheduleResponse, error)

	PullDue(ctx context.Context, loanID, periodID string) (decimal.Decimal, error)
	DueForEmployee(ctx context.Context, employeeID, periodID string) (decimal.Decimal, error)
	Commit(ctx context.Context, loanID, periodID, entryID string, amount decimal.Decimal) error
	CommitForEmployee(ctx context.Context, employeeID, periodID, entryID string) (decimal.Decimal, error)
	RepaidInPeriod(ctx context.Context, periodID string) (map[string]decimal.Decimal, error)
}
