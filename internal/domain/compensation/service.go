package compensation

import "context"

type CompensationService interface {
	CreateRate(ctx context.Context, req CreateRateRequest) (RateResponse, error)
	ListRates(ctx context.Context, employeeID string) ([]RateResponse, error)
	CreateBonus(ctx context.Context, req CreateBonusRequest) (Bonus, error)
	CreateDeduction(ctx context.Context, req CreateDeductionRequest) (Deduction, error)
	CreateOvertimeRule(ctx context.Context, req CreateOvertimeRuleRequest) (OvertimeRule, error)
	CreateSickLeaveRule(ctx context.Context, req CreateSickLeaveRuleRequest) (SickLeaveRule, error)
}
