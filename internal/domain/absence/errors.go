package absence

import "errors"

var (
	ErrAbsenceNotFound      = errors.New("absence record not found")
	ErrBalanceNotFound      = errors.New("absence balance not found")
	ErrInvalidAbsenceStatus = errors.New("operation not allowed in current absence status")
	ErrInvalidAbsenceRange  = errors.New("absence end date before start date")
	ErrInvalidAbsenceType   = errors.New("invalid absence type")
	ErrInsufficientBalance  = errors.New("insufficient absence balance")
	ErrNegativeDays         = errors.New("days cannot be negative")
	ErrReturnExceedsUsed    = errors.New("cannot return more days than used")
	ErrBalanceExists        = errors.New("absence balance already exists for employee, type and year")
)
