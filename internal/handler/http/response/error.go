package response

import (
	"errors"
	"net/http"

	"github.com/paycove/payroll-backend-go/internal/domain/absence"
	"github.com/paycove/payroll-backend-go/internal/domain/compensation"
	"github.com/paycove/payroll-backend-go/internal/domain/contract"
	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/paycove/payroll-backend-go/internal/domain/employee"
	"github.com/paycove/payroll-backend-go/internal/domain/money"
	"github.com/paycove/payroll-backend-go/internal/domain/payroll"
	"github.com/paycove/payroll-backend-go/internal/domain/timesheet"
	"github.com/paycove/payroll-backend-go/internal/pkg/validator"
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
	// Not found
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll not found")
	case errors.Is(err, timesheet.ErrTimesheetNotFound):
		NotFound(w, "Timesheet not found")
	case errors.Is(err, absence.ErrAbsenceNotFound):
		NotFound(w, "Absence not found")
	case errors.Is(err, absence.ErrBalanceNotFound):
		NotFound(w, "Absence balance not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, compensation.ErrRateNotFound):
		NotFound(w, "Compensation rate not found")

	// Conflicts
	case errors.Is(err, payroll.ErrDuplicatePayroll):
		Conflict(w, "A payroll already exists for this employee and period")
	case errors.Is(err, payroll.ErrConcurrencyConflict):
		Conflict(w, "Payroll was modified concurrently, reload and retry")
	case errors.Is(err, payroll.ErrInvalidStateTransition):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrNotCalculated):
		Conflict(w, "Payroll has no breakdown yet")
	case errors.Is(err, timesheet.ErrOverlappingTimesheets):
		Conflict(w, err.Error())
	case errors.Is(err, timesheet.ErrInvalidTimesheetStatus):
		Conflict(w, "Timesheet is not in a state that allows this operation")
	case errors.Is(err, absence.ErrInvalidAbsenceStatus):
		Conflict(w, "Absence is not in a state that allows this operation")
	case errors.Is(err, absence.ErrBalanceExists):
		Conflict(w, "Absence balance already exists for this employee, type and year")

	// Domain preconditions
	case errors.Is(err, compensation.ErrNoActiveRate):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, compensation.ErrNoOvertimeRule):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, absence.ErrInsufficientBalance):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, money.ErrCurrencyMismatch):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, money.ErrNegativeAmount):
		BadRequest(w, "Amount cannot be negative", nil)
	case errors.Is(err, contract.ErrNoActiveContract):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, employee.ErrEmployeeNotActive):
		BadRequest(w, "Employee is not active", nil)
	case errors.Is(err, payroll.ErrPaymentReferenceRequired):
		BadRequest(w, "Payment reference is required", nil)
	case errors.Is(err, dates.ErrInvalidPeriod):
		BadRequest(w, "Period end date is before its start date", nil)
	case errors.Is(err, timesheet.ErrRejectionReasonRequired):
		BadRequest(w, "Rejection reason is required", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
