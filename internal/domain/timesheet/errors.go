package timesheet

import "errors"

var (
	ErrTimesheetNotFound         = errors.New("timesheet not found")
	ErrInvalidTimesheetStatus    = errors.New("operation not allowed in current timesheet status")
	ErrInvalidTimesheetRange     = errors.New("timesheet end date before start date")
	ErrNegativeHours             = errors.New("hours cannot be negative")
	ErrOvertimeCategoryRequired  = errors.New("overtime category required when overtime hours > 0")
	ErrOvertimeCategoryForbidden = errors.New("overtime category must be empty when no overtime hours")
	ErrInvalidOvertimeCategory   = errors.New("invalid overtime category")
	ErrRejectionReasonRequired   = errors.New("rejection reason is required")
	ErrOverlappingTimesheets     = errors.New("overlapping approved timesheets for employee")
)
