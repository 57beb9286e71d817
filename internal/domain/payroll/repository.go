package payroll

import (
	"context"

	"github.com/paycove/payroll-backend-go/internal/domain/dates"
)

type ListFilter struct {
	EmployeeID string
	Status     *PayrollStatus
	Page       int
	Limit      int
}

type PayrollRepository interface {
	// Create persists a new draft; ErrDuplicatePayroll when one already exists
	// for the employee and period.
	Create(ctx context.Context, p Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, period dates.Period) (Payroll, error)
	List(ctx context.Context, filter ListFilter) ([]Payroll, int64, error)
	// UpdateVersioned writes the aggregate only when the stored version still
	// equals expectedVersion, incrementing it atomically; otherwise
	// ErrConcurrencyConflict and no mutation.
	UpdateVersioned(ctx context.Context, p Payroll, expectedVersion int64) (Payroll, error)
}
