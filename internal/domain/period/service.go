package period

import "context"

// WorkflowService drives a payroll period through the approval workflow.
// Every transition validates the current status against the central
// transition table before doing anything else.
type WorkflowService interface {
	CreatePeriod(ctx context.Context, req CreatePeriodRequest) (PeriodResponse, error)
	GetPeriod(ctx context.Context, id string) (PeriodResponse, error)
	ListPeriods(ctx context.Context, filter Filter) ([]PeriodResponse, error)
	ListEntries(ctx context.Context, periodID string) ([]EntryResponse, error)

	Initiate(ctx context.Context, periodID string) (PeriodResponse, error)
	Process(ctx context.Context, periodID string) (PeriodResponse, error)
	HRSubmit(ctx context.Context, periodID string) (PeriodResponse, error)
	FinanceSubmit(ctx context.Context, periodID string) (PeriodResponse, error)
	RequestApproval(ctx context.Context, periodID string) (PeriodResponse, error)
	Approve(ctx context.Context, periodID string, req ApproveRequest) (PeriodResponse, error)
	Disburse(ctx context.Context, periodID string) (PeriodResponse, error)
	Complete(ctx context.Context, periodID string) (PeriodResponse, error)
	Lock(ctx context.Context, periodID string) (PeriodResponse, error)

	Verify(ctx context.Context, periodID string) (ReconciliationReport, error)
}
