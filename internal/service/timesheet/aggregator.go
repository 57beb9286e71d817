package timesheet

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/paycove/payroll-backend-go/internal/domain/timesheet"
)

// HoursAggregator folds approved timesheets into per-period worked hours.
type HoursAggregator struct {
	repo timesheet.TimesheetRepository
}

func NewHoursAggregator(repo timesheet.TimesheetRepository) *HoursAggregator {
	return &HoursAggregator{repo: repo}
}

// Aggregate sums the approved timesheets overlapping the period. A timesheet
// extending past the period contributes a day-proportional share of its hours.
// Two approved timesheets whose ranges intersect are rejected: the same day
// must never be counted twice.
func (a *HoursAggregator) Aggregate(ctx context.Context, employeeID string, period dates.Period) (timesheet.WorkedHours, error) {
	sheets, err := a.repo.ListApprovedOverlapping(ctx, employeeID, period)
	if err != nil {
		return timesheet.WorkedHours{}, fmt.Errorf("list approved timesheets: %w", err)
	}

	for i := 0; i < len(sheets); i++ {
		for j := i + 1; j < len(sheets); j++ {
			if sheets[i].Range().Overlaps(sheets[j].Range()) {
				return timesheet.WorkedHours{}, fmt.Errorf("%w: %s and %s",
					timesheet.ErrOverlappingTimesheets, sheets[i].ID, sheets[j].ID)
			}
		}
	}

	worked := timesheet.NewWorkedHours()
	for _, ts := range sheets {
		fraction := periodFraction(ts.Range(), period)
		worked.RegularHours = worked.RegularHours.Add(ts.Hours.Mul(fraction))
		if ts.OvertimeHours.IsPositive() && ts.OvertimeCategory != nil {
			cat := *ts.OvertimeCategory
			worked.OvertimeByCategory[cat] = worked.OvertimeByCategory[cat].Add(ts.OvertimeHours.Mul(fraction))
		}
	}
	return worked, nil
}

// periodFraction is the share of the timesheet's days that fall inside the
// period, 1 when fully contained.
func periodFraction(r dates.Period, period dates.Period) decimal.Decimal {
	total := r.Days()
	overlap := r.OverlapDays(period)
	if overlap >= total {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(overlap)).Div(decimal.NewFromInt(int64(total)))
}
