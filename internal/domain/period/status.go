package period

// Status enum. A payroll period only ever moves forward through this
// sequence; locked is terminal.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusCollecting      Status = "collecting"
	StatusProcessing      Status = "processing"
	StatusHRReview        Status = "hr_review"
	StatusFinanceReview   Status = "finance_review"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusDisbursing      Status = "disbursing"
	StatusCompleted       Status = "completed"
	StatusLocked          Status = "locked"
)

// statusOrder is the single source of truth for the workflow sequence.
var statusOrder = []Status{
	StatusDraft,
	StatusCollecting,
	StatusProcessing,
	StatusHRReview,
	StatusFinanceReview,
	StatusPendingApproval,
	StatusApproved,
	StatusDisbursing,
	StatusCompleted,
	StatusLocked,
}

var statusRank = func() map[Status]int {
	m := make(map[Status]int, len(statusOrder))
	for i, s := range statusOrder {
		m[s] = i
	}
	return m
}()

// IsValid reports whether s is a known workflow status.
func (s Status) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// Next returns the immediate successor status. ok is false for locked
// (terminal) and for unknown statuses.
func (s Status) Next() (Status, bool) {
	rank, known := statusRank[s]
	if !known || rank == len(statusOrder)-1 {
		return "", false
	}
	return statusOrder[rank+1], true
}

// CanTransition reports whether from may advance directly to to.
// No skipping, no reversing.
func CanTransition(from, to Status) bool {
	next, ok := from.Next()
	return ok && next == to
}
