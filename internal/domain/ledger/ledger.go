// Package ledger defines the contract every durable store implementation
// must satisfy: versioned single-record updates and an all-or-nothing
// transaction boundary for multi-entity operations.
package ledger

import (
	"context"
	"errors"
	"fmt"
)

// ErrConcurrentModification is returned when a versioned write observes
// that the record changed between read and write.
var ErrConcurrentModification = errors.New("concurrent modification")

// VersionConflictError carries which record lost the optimistic-lock race.
type VersionConflictError struct {
	Entity string
	ID     string
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Entity, e.ID, ErrConcurrentModification)
}

func (e *VersionConflictError) Unwrap() error { return ErrConcurrentModification }

/// TxRunner executes fn atomically: every repository write made through the
// returned context either commits as a unit or rolls back entirely.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
