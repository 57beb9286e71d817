package compensation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/paycove/payroll-backend-go/internal/domain/compensation"
	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/paycove/payroll-backend-go/internal/domain/money"
	"github.com/paycove/payroll-backend-go/internal/domain/payroll"
)

// ProfileResolver selects the compensation components applicable to one
// employee and payroll period.
type ProfileResolver struct {
	repo   compensation.CompensationRepository
	logger *slog.Logger
}

func NewProfileResolver(repo compensation.CompensationRepository, logger *slog.Logger) *ProfileResolver {
	return &ProfileResolver{repo: repo, logger: logger}
}

// Resolve builds the profile for the period. The rate is resolved at the
// period start date; bonuses must fall inside the period; deductions and
// rules qualify on any window overlap. A violated rate non-overlap invariant
// is resolved deterministically (latest valid_from wins) and surfaced as an
// AmbiguousRate advisory rather than an error.
func (r *ProfileResolver) Resolve(ctx context.Context, employeeID string, period dates.Period) (compensation.Profile, []payroll.Advisory, error) {
	var advisories []payroll.Advisory

	rates, err := r.repo.ListRatesCovering(ctx, employeeID, period.Start)
	if err != nil {
		return compensation.Profile{}, nil, fmt.Errorf("list rates: %w", err)
	}

	var rate compensation.Rate
	switch len(rates) {
	case 0:
		return compensation.Profile{}, nil, fmt.Errorf("%w: employee %s at %s",
			compensation.ErrNoActiveRate, employeeID, period.Start.Format("2006-01-02"))
	case 1:
		rate = rates[0]
	default:
		rate = rates[0]
		for _, candidate := range rates[1:] {
			if candidate.Window.ValidFrom.After(rate.Window.ValidFrom) {
				rate = candidate
			}
		}
		advisories = append(advisories, payroll.Advisory{
			Code: payroll.AdvisoryAmbiguousRate,
			Message: fmt.Sprintf("%d rates cover %s for employee %s; selected rate %s (valid_from %s)",
				len(rates), period.Start.Format("2006-01-02"), employeeID, rate.ID,
				rate.Window.ValidFrom.Format("2006-01-02")),
		})
		r.logger.Warn("ambiguous compensation rate",
			slog.String("employee_id", employeeID),
			slog.String("selected_rate_id", rate.ID),
			slog.Int("candidates", len(rates)),
		)
	}

	bonuses, err := r.repo.ListBonusesInPeriod(ctx, employeeID, period)
	if err != nil {
		return compensation.Profile{}, nil, fmt.Errorf("list bonuses: %w", err)
	}

	deductions, err := r.repo.ListDeductionsOverlapping(ctx, employeeID, period)
	if err != nil {
		return compensation.Profile{}, nil, fmt.Errorf("list deductions: %w", err)
	}

	overtimeRules, err := r.repo.ListOvertimeRulesOverlapping(ctx, employeeID, period)
	if err != nil {
		return compensation.Profile{}, nil, fmt.Errorf("list overtime rules: %w", err)
	}

	sickLeaveRules, err := r.repo.ListSickLeaveRulesOverlapping(ctx, employeeID, period)
	if err != nil {
		return compensation.Profile{}, nil, fmt.Errorf("list sick leave rules: %w", err)
	}

	if err := checkCurrency(rate, bonuses, deductions); err != nil {
		return compensation.Profile{}, nil, err
	}

	return compensation.Profile{
		Rate:           rate,
		Bonuses:        bonuses,
		Deductions:     deductions,
		OvertimeRules:  overtimeRules,
		SickLeaveRules: sickLeaveRules,
		Currency:       rate.Amount.Currency,
	}, advisories, nil
}

// checkCurrency rejects mixed-currency profiles, naming every conflicting
// entity so the data problem is actionable.
func checkCurrency(rate compensation.Rate, bonuses []compensation.Bonus, deductions []compensation.Deduction) error {
	currency := rate.Amount.Currency
	var conflicts []string

	for _, b := range bonuses {
		if b.Amount.Currency != currency {
			conflicts = append(conflicts, fmt.Sprintf("bonus %s (%s)", b.ID, b.Amount.Currency))
		}
	}
	for _, d := range deductions {
		if d.Amount.Currency != currency {
			conflicts = append(conflicts, fmt.Sprintf("deduction %s (%s)", d.ID, d.Amount.Currency))
		}
	}

	if len(conflicts) > 0 {
		return fmt.Errorf("%w: rate currency %s, conflicting: %s",
			money.ErrCurrencyMismatch, currency, strings.Join(conflicts, ", "))
	}
	return nil
}
