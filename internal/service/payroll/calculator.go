package payroll

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/paycove/payroll-backend-go/internal/domain/absence"
	"github.com/paycove/payroll-backend-go/internal/domain/compensation"
	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/paycove/payroll-backend-go/internal/domain/payroll"
	"github.com/paycove/payroll-backend-go/internal/domain/timesheet"
)

// hoursPerDay converts between daily and hourly rates for salaried staff and
// prices sick days for hourly staff.
var hoursPerDay = decimal.NewFromInt(8)

var oneHundred = decimal.NewFromInt(100)

// CalculationInput is everything a breakdown depends on. Same input, same
// breakdown: the calculation reads no clock and no store.
type CalculationInput struct {
	Period  dates.Period
	Profile compensation.Profile
	Worked  timesheet.WorkedHours
	Impact  absence.Impact
	// WorkingDays is the number of payable days in the period, defaulting to
	// its business days.
	WorkingDays int
}

// Calculate computes the pay breakdown for one employee and period. Amounts
// are rounded to 2 decimal places per component; a negative net is floored at
// zero with a NetPayFloored advisory.
func Calculate(in CalculationInput) (payroll.Breakdown, []payroll.Advisory, error) {
	workingDays := in.WorkingDays
	if workingDays <= 0 {
		workingDays = in.Period.BusinessDays()
	}
	workingDaysDec := decimal.NewFromInt(int64(workingDays))

	rate := in.Profile.Rate
	var dailyRate, hourlyRate decimal.Decimal
	switch rate.Type {
	case compensation.RateHourly:
		hourlyRate = rate.Amount.Amount
		dailyRate = hourlyRate.Mul(hoursPerDay)
	case compensation.RateSalary, compensation.RateCommission:
		dailyRate = rate.Amount.Amount.Div(workingDaysDec)
		hourlyRate = dailyRate.Div(hoursPerDay)
	default:
		return payroll.Breakdown{}, nil, fmt.Errorf("%w: %s", compensation.ErrInvalidRateType, rate.Type)
	}

	var advisories []payroll.Advisory

	regularPay := regularPay(rate.Type, dailyRate, workingDaysDec, in)

	overtimePay, err := overtimePay(hourlyRate, in)
	if err != nil {
		return payroll.Breakdown{}, nil, err
	}

	bonusTotal := decimal.Zero
	for _, b := range in.Profile.Bonuses {
		bonusTotal = bonusTotal.Add(b.Amount.Amount)
	}

	deductionTotal := decimal.Zero
	periodDays := decimal.NewFromInt(int64(in.Period.Days()))
	for _, d := range in.Profile.Deductions {
		overlap := decimal.NewFromInt(int64(d.Window.OverlapDays(in.Period)))
		deductionTotal = deductionTotal.Add(d.Amount.Amount.Mul(overlap).Div(periodDays))
	}

	sickAdjustment, sickAdvisories := sickLeaveAdjustment(rate.Type, dailyRate, hourlyRate, in)
	advisories = append(advisories, sickAdvisories...)

	regularPay = regularPay.Round(2)
	overtimePay = overtimePay.Round(2)
	bonusTotal = bonusTotal.Round(2)
	deductionTotal = deductionTotal.Round(2)
	sickAdjustment = sickAdjustment.Round(2)

	netPay := regularPay.Add(overtimePay).Add(bonusTotal).Sub(deductionTotal).Add(sickAdjustment)
	if netPay.IsNegative() {
		advisories = append(advisories, payroll.Advisory{
			Code:    payroll.AdvisoryNetPayFloored,
			Message: fmt.Sprintf("net pay %s %s floored to zero", netPay.StringFixed(2), in.Profile.Currency),
		})
		netPay = decimal.Zero
	}

	return payroll.Breakdown{
		Currency:            in.Profile.Currency,
		RegularPay:          regularPay,
		OvertimePay:         overtimePay,
		BonusTotal:          bonusTotal,
		DeductionTotal:      deductionTotal,
		SickLeaveAdjustment: sickAdjustment,
		NetPay:              netPay,
	}, advisories, nil
}

// regularPay is the base pay before overtime and adjustments. Salaried staff
// are paid per payable day minus unpaid absence days; hourly staff are paid
// for logged hours, which already exclude days not worked.
func regularPay(rateType compensation.RateType, dailyRate, workingDays decimal.Decimal, in CalculationInput) decimal.Decimal {
	if rateType == compensation.RateHourly {
		return in.Profile.Rate.Amount.Amount.Mul(in.Worked.RegularHours)
	}
	paidDays := workingDays.Sub(in.Impact.UnpaidDays)
	if paidDays.IsNegative() {
		paidDays = decimal.Zero
	}
	return dailyRate.Mul(paidDays)
}

// overtimePay prices each overtime category against its rule. Hours that push
// the category's total past the rule threshold earn the multiplier; the rest
// earn the plain hourly rate. Overtime hours without a matching rule fail the
// calculation.
func overtimePay(hourlyRate decimal.Decimal, in CalculationInput) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, category := range orderedCategories(in.Worked) {
		hours := in.Worked.OvertimeByCategory[category]
		if !hours.IsPositive() {
			continue
		}
		rule, ok := in.Profile.OvertimeRuleFor(category, in.Period)
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: category %s", compensation.ErrNoOvertimeRule, category)
		}

		categoryTotal := in.Worked.RegularHours.Add(hours)
		premiumHours := categoryTotal.Sub(rule.ThresholdHours)
		if premiumHours.IsNegative() {
			premiumHours = decimal.Zero
		}
		if premiumHours.GreaterThan(hours) {
			premiumHours = hours
		}
		plainHours := hours.Sub(premiumHours)

		total = total.Add(hourlyRate.Mul(rule.Multiplier).Mul(premiumHours))
		total = total.Add(hourlyRate.Mul(plainHours))
	}
	return total, nil
}

// orderedCategories fixes the map iteration order so results and advisories
// are deterministic.
func orderedCategories(worked timesheet.WorkedHours) []timesheet.OvertimeCategory {
	all := []timesheet.OvertimeCategory{
		timesheet.OvertimeRegular,
		timesheet.OvertimeWeekend,
		timesheet.OvertimeHoliday,
		timesheet.OvertimeNightShift,
	}
	out := make([]timesheet.OvertimeCategory, 0, len(worked.OvertimeByCategory))
	for _, c := range all {
		if _, ok := worked.OvertimeByCategory[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// sickLeaveAdjustment reprices consumed sick days per the active rule.
// Salaried staff already carry sick days inside regular pay, so the
// adjustment subtracts the unpaid share; hourly staff have no sick hours
// logged, so it adds the paid share. Days beyond the rule's yearly cap are
// unpaid and flagged. Without a rule sick days stay fully paid for salaried
// staff and unpaid for hourly staff.
func sickLeaveAdjustment(rateType compensation.RateType, dailyRate, hourlyRate decimal.Decimal, in CalculationInput) (decimal.Decimal, []payroll.Advisory) {
	sickDays := in.Impact.SickDays()
	if len(sickDays) == 0 {
		return decimal.Zero, nil
	}
	rule, ok := in.Profile.SickLeaveRuleFor(in.Period)
	if !ok {
		return decimal.Zero, nil
	}

	years := make([]int, 0, len(sickDays))
	for year := range sickDays {
		years = append(years, year)
	}
	sort.Ints(years)

	adjustment := decimal.Zero
	var advisories []payroll.Advisory
	payRatio := rule.Percentage.Div(oneHundred)

	for _, year := range years {
		days := sickDays[year]
		covered := days
		if rule.MaxDays != nil {
			capDays := decimal.NewFromInt(int64(*rule.MaxDays))
			if covered.GreaterThan(capDays) {
				covered = capDays
				excess := days.Sub(capDays)
				advisories = append(advisories, payroll.Advisory{
					Code: payroll.AdvisoryExceedsSickCap,
					Message: fmt.Sprintf("%s sick days in %d exceed the %d-day cap by %s; excess days are unpaid",
						days.String(), year, *rule.MaxDays, excess.String()),
				})
				if rateType != compensation.RateHourly {
					adjustment = adjustment.Sub(dailyRate.Mul(excess))
				}
			}
		}
		if rateType == compensation.RateHourly {
			adjustment = adjustment.Add(hourlyRate.Mul(hoursPerDay).Mul(payRatio).Mul(covered))
		} else {
			adjustment = adjustment.Add(dailyRate.Mul(covered).Mul(payRatio.Sub(decimal.NewFromInt(1))))
		}
	}
	return adjustment, advisories
}
