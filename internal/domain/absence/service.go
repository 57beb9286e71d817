package absence

import "context"

type AbsenceService interface {
	Create(ctx context.Context, req CreateAbsenceRequest) (AbsenceResponse, error)
	Approve(ctx context.Context, id string) (AbsenceResponse, error)
	Reject(ctx context.Context, id string) (AbsenceResponse, error)
	Cancel(ctx context.Context, id string) (AbsenceResponse, error)
	GetByID(ctx context.Context, id string) (AbsenceResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]AbsenceResponse, error)
	CreateBalance(ctx context.Context, req CreateBalanceRequest) (BalanceResponse, error)
	ListBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
}
