package payroll

import "context"

// PayrollService is the lifecycle boundary the transport layer depends on.
// The actor is the authenticated user performing the command.
type PayrollService interface {
	Create(ctx context.Context, req CreatePayrollRequest, actorID string) (PayrollResponse, error)
	Calculate(ctx context.Context, id string, req CalculatePayrollRequest, actorID string) (CalculateResponse, error)
	Approve(ctx context.Context, id string, req TransitionRequest, actorID string) (PayrollResponse, error)
	Process(ctx context.Context, id string, req TransitionRequest, actorID string) (PayrollResponse, error)
	MarkPaid(ctx context.Context, id string, req MarkPaidRequest, actorID string) (PayrollResponse, error)
	Cancel(ctx context.Context, id string, req TransitionRequest, actorID string) (PayrollResponse, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	List(ctx context.Context, filter ListFilter) (ListPayrollResponse, error)
}
