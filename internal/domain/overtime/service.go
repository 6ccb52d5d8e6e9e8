package overtime

import (
	"context"
	"time"
)

// OvertimeService manages overtime claims and their approval.
// PullApproved hands the workflow engine the approved, not-yet-consumed
// records for a date range; MarkProcessed ties them to the payroll entry
// that consumed them.
type OvertimeService interface {
	Create(ctx context.Context, req CreateOvertimeRequest) (OvertimeResponse, error)
	Get(ctx context.Context, id string) (OvertimeResponse, error)
	List(ctx context.Context, filter Filter) ([]OvertimeResponse, error)
	Approve(ctx context.Context, id string, req ApproveOvertimeRequest) (OvertimeResponse, error)
	Reject(ctx context.Context, id string, req RejectOvertimeRequest) (OvertimeResponse, error)

	PullApproved(ctx context.Context, employeeID string, from, to time.Time) ([]OvertimeRecord, error)
	MarkProcessed(ctx context.Context, recordID, entryID string) error
}
