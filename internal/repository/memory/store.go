// Package memory is a driverless ledger store: mutex-guarded maps with
// the same versioned-update and transaction semantics as the PostgreSQL
// repositories. It backs the service tests and the "memory" storage
// driver for local single-user runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/advance"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/employee"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/loan"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/overtime"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/period"
)

type txKey struct{}

// Store holds every entity kind behind one mutex. A transaction takes the
// lock for its whole duration, so writers serialize and readers always see
// a committed state.
type Store struct {
	mu sync.Mutex

	periods map[string]period.PayrollPeriod
	entries map[string]period.PayrollEntry

	advances             map[string]advance.SalaryAdvance
	advanceRepayments    map[string]advance.Repayment
	advanceRepaymentKeys map[string]string // advanceID|periodID -> repayment id

	loans             map[string]loan.EmployeeLoan
	loanRepayments    map[string]loan.Repayment
	loanRepaymentKeys map[string]string // loanID|periodID -> repayment id

	overtimeRecords map[string]overtime.OvertimeRecord

	employees        map[string]employee.Employee
	salaryStructures map[string]employee.SalaryStructure // keyed by employee id
}

func NewStore() *Store {
	return &Store{
		periods:              make(map[string]period.PayrollPeriod),
		entries:              make(map[string]period.PayrollEntry),
		advances:             make(map[string]advance.SalaryAdvance),
		advanceRepayments:    make(map[string]advance.Repayment),
		advanceRepaymentKeys: make(map[string]string),
		loans:                make(map[string]loan.EmployeeLoan),
		loanRepayments:       make(map[string]loan.Repayment),
		loanRepaymentKeys:    make(map[string]string),
		overtimeRecords:      make(map[string]overtime.OvertimeRecord),
		employees:            make(map[string]employee.Employee),
		salaryStructures:     make(map[string]employee.SalaryStructure),
	}
}

var _ ledger.TxRunner = (*Store)(nil)

// WithinTx runs fn holding the store lock; on error every map is restored
// from a snapshot, so partial writes never become visible.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx) // already inside a transaction
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// enter acquires the store lock unless ctx is already inside a
// transaction; the returned func releases whatever was taken.
func (s *Store) enter(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	periods              map[string]period.PayrollPeriod
	entries              map[string]period.PayrollEntry
	advances             map[string]advance.SalaryAdvance
	advanceRepayments    map[string]advance.Repayment
	advanceRepaymentKeys map[string]string
	loans                map[string]loan.EmployeeLoan
	loanRepayments       map[string]loan.Repayment
	loanRepaymentKeys    map[string]string
	overtimeRecords      map[string]overtime.OvertimeRecord
	employees            map[string]employee.Employee
	salaryStructures     map[string]employee.SalaryStructure
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		periods:              copyMap(s.periods),
		entries:              copyMap(s.entries),
		advances:             copyMap(s.advances),
		advanceRepayments:    copyMap(s.advanceRepayments),
		advanceRepaymentKeys: copyMap(s.advanceRepaymentKeys),
		loans:                copyMap(s.loans),
		loanRepayments:       copyMap(s.loanRepayments),
		loanRepaymentKeys:    copyMap(s.loanRepaymentKeys),
		overtimeRecords:      copyMap(s.overtimeRecords),
		employees:            copyMap(s.employees),
		salaryStructures:     copyMap(s.salaryStructures),
	}
}

func (s *Store) restore(snap snapshot) {
	s.periods = snap.periods
	s.entries = snap.entries
	s.advances = snap.advances
	s.advanceRepayments = snap.advanceRepayments
	s.advanceRepaymentKeys = snap.advanceRepaymentKeys
	s.loans = snap.loans
	s.loanRepayments = snap.loanRepayments
	s.loanRepaymentKeys = snap.loanRepaymentKeys
	s.overtimeRecords = snap.overtimeRecords
	s.employees = snap.employees
	s.salaryStructures = snap.salaryStructures
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func repaymentKey(ledgerID, periodID string) string {
	return ledgerID + "|" + periodID
}

func sortByCreated[T any](items []T, createdAt func(T) time.Time, id func(T) string) {
	sort.Slice(items, func(a, b int) bool {
		ta, tb := createdAt(items[a]), createdAt(items[b])
		if ta.Equal(tb) {
			return id(items[a]) < id(items[b])
		}
		return ta.Before(tb)
	})
}
