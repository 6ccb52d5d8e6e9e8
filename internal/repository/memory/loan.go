package memory

import (
	"context"
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/loan"
)

type loanRepository struct {
	store *Store
}

func NewLoanRepository(store *Store) loan.LoanRepository {
	return &loanRepository{store: store}
}

func (r *loanRepository) Create(ctx context.Context, l loan.EmployeeLoan) (loan.EmployeeLoan, error) {
	defer r.store.enter(ctx)()

	now := time.Now()
	l.ID = newID(l.ID)
	l.Version = 1
	l.CreatedAt = now
	l.UpdatedAt = now
	r.store.loans[l.ID] = l
	return l, nil
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (loan.EmployeeLoan, error) {
	defer r.store.enter(ctx)()

	l, ok := r.store.loans[id]
	if !ok {
		return loan.EmployeeLoan{}, loan.ErrLoanNotFound
	}
	return l, nil
}

func (r *loanRepository) List(ctx context.Context, filter loan.Filter) ([]loan.EmployeeLoan, error) {
	defer r.store.enter(ctx)()

	var result []loan.EmployeeLoan
	for _, l := range r.store.loans {
		if filter.EmployeeID != nil && l.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		result = append(result, l)
	}
	sortByCreated(result,
		func(l loan.EmployeeLoan) time.Time { return l.CreatedAt },
		func(l loan.EmployeeLoan) string { return l.ID })
	return result, nil
}

func (r *loanRepository) ListOpenByEmployee(ctx context.Context, employeeID string) ([]loan.EmployeeLoan, error) {
	defer r.store.enter(ctx)()

	var result []loan.EmployeeLoan
	for _, l := range r.store.loans {
		if l.EmployeeID != employeeID {
			continue
		}
		if l.Status == loan.StatusDisbursed || l.Status == loan.StatusActive {
			result = append(result, l)
		}
	}
	sortByCreated(result,
		func(l loan.EmployeeLoan) time.Time { return l.CreatedAt },
		func(l loan.EmployeeLoan) string { return l.ID })
	return result, nil
}

func (r *loanRepository) Update(ctx context.Context, l loan.EmployeeLoan) (loan.EmployeeLoan, error) {
	defer r.store.enter(ctx)()

	stored, ok := r.store.loans[l.ID]
	if !ok {
		return loan.EmployeeLoan{}, loan.ErrLoanNotFound
	}
	if stored.Version != l.Version {
		return loan.EmployeeLoan{}, &ledger.VersionConflictError{Entity: "employee_loan", ID: l.ID}
	}
	l.Version++
	l.CreatedAt = stored.CreatedAt
	l.UpdatedAt = time.Now()
	r.store.loans[l.ID] = l
	return l, nil
}

func (r *loanRepository) CreateRepayment(ctx context.Context, rep loan.Repayment) (loan.Repayment, error) {
	defer r.store.enter(ctx)()

	key := repaymentKey(rep.LoanID, rep.PeriodID)
	if _, exists := r.store.loanRepaymentKeys[key]; exists {
		return loan.Repayment{}, &loan.CommitConflictError{LoanID: rep.LoanID, PeriodID: rep.PeriodID}
	}

	rep.ID = newID(rep.ID)
	rep.CreatedAt = time.Now()
	r.store.loanRepayments[rep.ID] = rep
	r.store.loanRepaymentKeys[key] = rep.ID
	return rep, nil
}

func (r *loanRepository) GetRepayment(ctx context.Context, loanID, periodID string) (loan.Repayment, error) {
	defer r.store.enter(ctx)()

	id, ok := r.store.loanRepaymentKeys[repaymentKey(loanID, periodID)]
	if !ok {
		return loan.Repayment{}, loan.ErrRepaymentNotFound
	}
	return r.store.loanRepayments[id], nil
}

func (r *loanRepository) ListRepaymentsByLoan(ctx context.Context, loanID string) ([]loan.Repayment, error) {
	defer r.store.enter(ctx)()

	var result []loan.Repayment
	for _, rep := range r.store.loanRepayments {
		if rep.LoanID == loanID {
			result = append(result, rep)
		}
	}
	sortByCreated(result,
		func(rep loan.Repayment) time.Time { return rep.CreatedAt },
		func(rep loan.Repayment) string { return rep.ID })
	return result, nil
}

func (r *loanRepository) ListRepaymentsByPeriod(ctx context.Context, periodID string) ([]loan.Repayment, error) {
	defer r.store.enter(ctx)()

	var result []loan.Repayment
	for _, rep := range r.store.loanRepayments {
		if rep.PeriodID == periodID {
			result = append(result, rep)
		}
	}
	sortByCreated(result,
		func(rep loan.Repayment) time.Time { return rep.CreatedAt },
		func(rep loan.Repayment) string { return rep.ID })
	return result, nil
}
