package timesheet

import "context"

type TimesheetService interface {
	Create(ctx context.Context, req CreateTimesheetRequest) (TimesheetResponse, error)
	Submit(ctx context.Context, id string) (TimesheetResponse, error)
	Approve(ctx context.Context, id string, approverID string) (TimesheetResponse, error)
	Reject(ctx context.Context, id string, req RejectTimesheetRequest) (TimesheetResponse, error)
	GetByID(ctx context.Context, id string) (TimesheetResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]TimesheetResponse, error)
}
