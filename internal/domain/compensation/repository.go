package compensation

import (
	"context"
	"time"

	"github.com/paycove/payroll-backend-go/internal/domain/dates"
)

type CompensationRepository interface {
	// Rates
	CreateRate(ctx context.Context, rate Rate) (Rate, error)
	ListRatesByEmployee(ctx context.Context, employeeID string) ([]Rate, error)
	// ListRatesCovering returns rates whose window is active at the given date.
	ListRatesCovering(ctx context.Context, employeeID string, at time.Time) ([]Rate, error)

	// Bonuses
	CreateBonus(ctx context.Context, bonus Bonus) (Bonus, error)
	ListBonusesInPeriod(ctx context.Context, employeeID string, period dates.Period) ([]Bonus, error)

	// Deductions
	CreateDeduction(ctx context.Context, ded Deduction) (Deduction, error)
	ListDeductionsOverlapping(ctx context.Context, employeeID string, period dates.Period) ([]Deduction, error)

	// Overtime rules
	CreateOvertimeRule(ctx context.Context, rule OvertimeRule) (OvertimeRule, error)
	ListOvertimeRulesOverlapping(ctx context.Context, employeeID string, period dates.Period) ([]OvertimeRule, error)

	// Sick leave rules
	CreateSickLeaveRule(ctx context.Context, rule SickLeaveRule) (SickLeaveRule, error)
	ListSickLeaveRulesOverlapping(ctx context.Context, employeeID string, period dates.Period) ([]SickLeaveRule, error)
}
