package response

import (
	"errors"
	"net/http"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/advance"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/employee"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/loan"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/overtime"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/period"
	"github.com/payflow-hq/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Period domain errors
	case errors.Is(err, period.ErrPeriodLocked):
		Locked(w, "Payroll period is locked")
	case errors.Is(err, period.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, period.ErrEntryNotFound):
		NotFound(w, "Payroll entry not found")
	case errors.Is(err, period.ErrPeriodExists):
		Conflict(w, "Payroll period already exists for this month")
	case errors.Is(err, period.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, period.ErrIncompleteData):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, period.ErrNegativeNetSalary):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, period.ErrReconciliationMismatch):
		Conflict(w, err.Error())

	// Advance domain errors
	case errors.Is(err, advance.ErrAdvanceNotFound):
		NotFound(w, "Salary advance not found")
	case errors.Is(err, advance.ErrRepaymentNotFound):
		NotFound(w, "Advance repayment not found")
	case errors.Is(err, advance.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, advance.ErrDuplicateCommit):
		Conflict(w, err.Error())
	case errors.Is(err, advance.ErrExcessiveCommit):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, advance.ErrNothingDue):
		BadRequest(w, err.Error(), nil)

	// Loan domain errors
	case errors.Is(err, loan.ErrLoanNotFound):
		NotFound(w, "Employee loan not found")
	case errors.Is(err, loan.ErrRepaymentNotFound):
		NotFound(w, "Loan repayment not found")
	case errors.Is(err, loan.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, loan.ErrDuplicateCommit):
		Conflict(w, err.Error())
	case errors.Is(err, loan.ErrExcessiveCommit):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, loan.ErrNothingDue):
		BadRequest(w, err.Error(), nil)

	// Overtime domain errors
	case errors.Is(err, overtime.ErrRecordNotFound):
		NotFound(w, "Overtime record not found")
	case errors.Is(err, overtime.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, overtime.ErrAlreadyProcessed):
		Conflict(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrSalaryStructureNotFound):
		NotFound(w, "Salary structure not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Conflict(w, "Employee is inactive")

	// Store errors
	case errors.Is(err, ledger.ErrConcurrentModification):
		Conflict(w, "Record was modified concurrently, retry the request")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
