package payroll

import "errors"

var (
	ErrPayrollNotFound          = errors.New("payroll not found")
	ErrDuplicatePayroll         = errors.New("payroll already exists for employee and period")
	ErrInvalidStateTransition   = errors.New("invalid payroll state transition")
	ErrConcurrencyConflict      = errors.New("payroll version conflict, reload and retry")
	ErrPaymentReferenceRequired = errors.New("payment reference is required")
	ErrNotCalculated            = errors.New("payroll has no breakdown yet")
)
