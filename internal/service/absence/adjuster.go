package absence

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/paycove/payroll-backend-go/internal/domain/absence"
	"github.com/paycove/payroll-backend-go/internal/domain/dates"
)

// AbsenceAdjuster turns approved absences into their payroll impact: unpaid
// days that reduce pay and planned balance consumption for paid days.
type AbsenceAdjuster struct {
	absenceRepo absence.AbsenceRepository
	balanceRepo absence.AbsenceBalanceRepository
}

func NewAbsenceAdjuster(absenceRepo absence.AbsenceRepository, balanceRepo absence.AbsenceBalanceRepository) *AbsenceAdjuster {
	return &AbsenceAdjuster{absenceRepo: absenceRepo, balanceRepo: balanceRepo}
}

// Assess clips each approved absence to the period and splits the days into
// unpaid reduction and per-type balance consumption. The consumption year
// follows the absence's own start date, so a December absence paid out in a
// January payroll still draws from the December balance. Paid days the
// balances cannot cover fail with ErrInsufficientBalance before anything is
// consumed.
func (a *AbsenceAdjuster) Assess(ctx context.Context, employeeID string, period dates.Period) (absence.Impact, error) {
	records, err := a.absenceRepo.ListApprovedOverlapping(ctx, employeeID, period)
	if err != nil {
		return absence.Impact{}, fmt.Errorf("list approved absences: %w", err)
	}

	impact := absence.Impact{UnpaidDays: decimal.Zero}
	planned := make(map[consumptionKey]decimal.Decimal)

	for _, rec := range records {
		days := decimal.NewFromInt(int64(rec.Range().OverlapDays(period)))
		if !days.IsPositive() {
			continue
		}
		if !rec.Type.IsPaid() {
			impact.UnpaidDays = impact.UnpaidDays.Add(days)
			continue
		}
		key := consumptionKey{absenceType: rec.Type, year: dates.Truncate(rec.StartDate).Year()}
		planned[key] = planned[key].Add(days)
	}

	keys := make([]consumptionKey, 0, len(planned))
	for key := range planned {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].absenceType != keys[j].absenceType {
			return keys[i].absenceType < keys[j].absenceType
		}
		return keys[i].year < keys[j].year
	})

	for _, key := range keys {
		days := planned[key]
		bal, err := a.balanceRepo.Get(ctx, employeeID, key.absenceType, key.year)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, absence.ErrBalanceNotFound) {
				return absence.Impact{}, fmt.Errorf("%w: no %s balance for %d (employee %s)",
					absence.ErrInsufficientBalance, key.absenceType, key.year, employeeID)
			}
			return absence.Impact{}, fmt.Errorf("get %s balance: %w", key.absenceType, err)
		}
		if !bal.CanTake(days) {
			return absence.Impact{}, fmt.Errorf("%w: %s %d needs %s days, %s remaining",
				absence.ErrInsufficientBalance, key.absenceType, key.year,
				days.String(), bal.RemainingDays().String())
		}
		impact.Consumptions = append(impact.Consumptions, absence.Consumption{
			Type: key.absenceType,
			Year: key.year,
			Days: days,
		})
	}

	return impact, nil
}

type consumptionKey struct {
	absenceType absence.AbsenceType
	year        int
}
