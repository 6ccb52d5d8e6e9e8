package advance

import (
	"context"

	"github.com/shopspring/decimal"
)

// AdvanceService drives the salary advance lifecycle.
//
// PullDue and Commit are the two halves of the period integration:
// PullDue answers "what does this advance owe for this period" without
// touching the repayment ledger (only the first pull flips a disbursed
// advance to repaying), while Commit records the repayment and is safe to
// call at most once per (advance, period).
type AdvanceService interface {
	Create(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error)
	Get(ctx context.Context, id string) (AdvanceResponse, error)
	List(ctx context.Context, filter Filter) ([]AdvanceResponse, error)
	Approve(ctx context.Context, id string, req ApproveAdvanceRequest) (AdvanceResponse, error)
	Reject(ctx context.Context, id string, req RejectAdvanceRequest) (AdvanceResponse, error)
	Disburse(ctx context.Context, id string) (AdvanceResponse, error)

	PullDue(ctx context.Context, advanceID, periodID string) (decimal.Decimal, error)
	DueForEmployee(ctx context.Context, employeeID, periodID string) (decimal.Decimal, error)
	Commit(ctx context.Context, advanceID, periodID, entryID string, amount decimal.Decimal) error
	CommitForEmployee(ctx context.Context, employeeID, periodID, entryID string) (decimal.Decimal, error)
	RepaidInPeriod(ctx context.Context, periodID string) (map[string]decimal.Decimal, error)
}
