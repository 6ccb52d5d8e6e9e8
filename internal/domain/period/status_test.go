package period

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusNextWalksTheFullSequence(t *testing.T) {
	want := []Status{
		StatusDraft, StatusCollecting, StatusProcessing,
		StatusHRReview, StatusFinanceReview, StatusPendingApproval,
		StatusApproved, StatusDisbursing, StatusCompleted, StatusLocked,
	}

	current := StatusDraft
	walked := []Status{current}
	for {
		next, ok := current.Next()
		if !ok {
			break
		}
		walked = append(walked, next)
		current = next
	}
	assert.Equal(t, want, walked)
}

func TestStatusLockedIsTerminal(t *testing.T) {
	_, ok := StatusLocked.Next()
	assert.False(t, ok)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusDraft, StatusCollecting))
	assert.True(t, CanTransition(StatusApproved, StatusDisbursing))

	// No skipping.
	assert.False(t, CanTransition(StatusDraft, StatusProcessing))
	assert.False(t, CanTransition(StatusCollecting, StatusApproved))

	// No reversing.
	assert.False(t, CanTransition(StatusProcessing, StatusCollecting))
	assert.False(t, CanTransition(StatusLocked, StatusDraft))

	// Unknown statuses never transition.
	assert.False(t, CanTransition(Status("bogus"), StatusDraft))
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusLocked, StatusHRReview} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, Status("archived").IsValid())
}
