package timesheet

import (
	"context"

	"github.com/paycove/payroll-backend-go/internal/domain/dates"
)

type TimesheetRepository interface {
	Create(ctx context.Context, ts Timesheet) (Timesheet, error)
	GetByID(ctx context.Context, id string) (Timesheet, error)
	Update(ctx context.Context, ts Timesheet) error
	ListByEmployee(ctx context.Context, employeeID string) ([]Timesheet, error)
	// ListApprovedOverlapping returns approved rows whose range intersects the
	// period, ordered by start date.
	ListApprovedOverlapping(ctx context.Context, employeeID string, period dates.Period) ([]Timesheet, error)
}
