package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paycove/payroll-backend-go/internal/domain/absence"
	"github.com/paycove/payroll-backend-go/internal/domain/compensation"
	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/paycove/payroll-backend-go/internal/domain/money"
	"github.com/paycove/payroll-backend-go/internal/domain/payroll"
	"github.com/paycove/payroll-backend-go/internal/domain/timesheet"
)

func usd(t *testing.T, amount string) money.Money {
	t.Helper()
	m, err := money.New(decimal.RequireFromString(amount), "USD")
	require.NoError(t, err)
	return m
}

func openWindow(t *testing.T, y int, m time.Month, d int) dates.Window {
	t.Helper()
	w, err := dates.NewWindow(time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	return w
}

func hourlyProfile(t *testing.T, rateAmount string) compensation.Profile {
	t.Helper()
	return compensation.Profile{
		Rate: compensation.Rate{
			ID:         "rate-1",
			EmployeeID: "emp-1",
			Type:       compensation.RateHourly,
			Amount:     usd(t, rateAmount),
			Window:     openWindow(t, 2024, time.January, 1),
		},
		Currency: "USD",
	}
}

func salariedProfile(t *testing.T, periodAmount string) compensation.Profile {
	t.Helper()
	p := hourlyProfile(t, periodAmount)
	p.Rate.Type = compensation.RateSalary
	return p
}

func overtimeRule(t *testing.T, category timesheet.OvertimeCategory, multiplier, threshold string) compensation.OvertimeRule {
	t.Helper()
	return compensation.OvertimeRule{
		ID:             "otr-" + string(category),
		EmployeeID:     "emp-1",
		Category:       category,
		Multiplier:     decimal.RequireFromString(multiplier),
		ThresholdHours: decimal.RequireFromString(threshold),
		Window:         openWindow(t, 2024, time.January, 1),
	}
}

func workedWith(regular string, category timesheet.OvertimeCategory, overtime string) timesheet.WorkedHours {
	worked := timesheet.NewWorkedHours()
	worked.RegularHours = decimal.RequireFromString(regular)
	if overtime != "" {
		worked.OvertimeByCategory[category] = decimal.RequireFromString(overtime)
	}
	return worked
}

func noImpact() absence.Impact {
	return absence.Impact{UnpaidDays: decimal.Zero}
}

func TestCalculate_HourlyWithOvertime(t *testing.T) {
	t.Parallel()

	profile := hourlyProfile(t, "20")
	profile.OvertimeRules = []compensation.OvertimeRule{
		overtimeRule(t, timesheet.OvertimeRegular, "1.5", "80"),
	}

	// Act
	breakdown, advisories, err := Calculate(CalculationInput{
		Period:  dates.MonthlyPeriod(2025, time.January),
		Profile: profile,
		Worked:  workedWith("80", timesheet.OvertimeRegular, "10"),
		Impact:  noImpact(),
	})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, advisories)
	assert.True(t, breakdown.RegularPay.Equal(decimal.RequireFromString("1600")), "regular %s", breakdown.RegularPay)
	assert.True(t, breakdown.OvertimePay.Equal(decimal.RequireFromString("300")), "overtime %s", breakdown.OvertimePay)
	assert.True(t, breakdown.NetPay.Equal(decimal.RequireFromString("1900")), "net %s", breakdown.NetPay)
}

func TestCalculate_OvertimeBelowThresholdPaysPlainRate(t *testing.T) {
	t.Parallel()

	profile := hourlyProfile(t, "20")
	profile.OvertimeRules = []compensation.OvertimeRule{
		overtimeRule(t, timesheet.OvertimeRegular, "1.5", "80"),
	}

	// 70 regular + 10 overtime stays under the 80h threshold: all overtime at
	// the plain rate.
	breakdown, _, err := Calculate(CalculationInput{
		Period:  dates.MonthlyPeriod(2025, time.January),
		Profile: profile,
		Worked:  workedWith("70", timesheet.OvertimeRegular, "10"),
		Impact:  noImpact(),
	})

	require.NoError(t, err)
	assert.True(t, breakdown.OvertimePay.Equal(decimal.RequireFromString("200")), "overtime %s", breakdown.OvertimePay)
}

func TestCalculate_SalariedUnpaidAbsenceReducesPay(t *testing.T) {
	t.Parallel()

	// $2000 over 20 working days is a $100 daily rate; 2 unpaid days leave 18
	// payable.
	breakdown, advisories, err := Calculate(CalculationInput{
		Period:      dates.MonthlyPeriod(2025, time.January),
		Profile:     salariedProfile(t, "2000"),
		Worked:      timesheet.NewWorkedHours(),
		Impact:      absence.Impact{UnpaidDays: decimal.RequireFromString("2")},
		WorkingDays: 20,
	})

	require.NoError(t, err)
	assert.Empty(t, advisories)
	assert.True(t, breakdown.RegularPay.Equal(decimal.RequireFromString("1800")), "regular %s", breakdown.RegularPay)
	assert.True(t, breakdown.NetPay.Equal(decimal.RequireFromString("1800")))
}

func TestCalculate_MissingOvertimeRule(t *testing.T) {
	t.Parallel()

	profile := hourlyProfile(t, "20")
	profile.OvertimeRules = []compensation.OvertimeRule{
		overtimeRule(t, timesheet.OvertimeRegular, "1.5", "80"),
	}

	// Weekend overtime logged but only a regular rule configured.
	_, _, err := Calculate(CalculationInput{
		Period:  dates.MonthlyPeriod(2025, time.January),
		Profile: profile,
		Worked:  workedWith("80", timesheet.OvertimeWeekend, "5"),
		Impact:  noImpact(),
	})

	require.ErrorIs(t, err, compensation.ErrNoOvertimeRule)
	assert.Contains(t, err.Error(), "weekend")
}

func TestCalculate_DeductionProratedByOverlap(t *testing.T) {
	t.Parallel()

	profile := salariedProfile(t, "3100")
	// Window covers the back half of January only: 16 of 31 days.
	from := time.Date(2025, time.January, 16, 0, 0, 0, 0, time.UTC)
	w, err := dates.NewWindow(from, nil)
	require.NoError(t, err)
	profile.Deductions = []compensation.Deduction{
		{ID: "ded-1", EmployeeID: "emp-1", Type: compensation.DeductionInsurance,
			Amount: usd(t, "310"), Window: w},
	}

	breakdown, _, err := Calculate(CalculationInput{
		Period:  dates.MonthlyPeriod(2025, time.January),
		Profile: profile,
		Worked:  timesheet.NewWorkedHours(),
		Impact:  noImpact(),
	})

	require.NoError(t, err)
	// 310 * 16/31 = 160
	assert.True(t, breakdown.DeductionTotal.Equal(decimal.RequireFromString("160")), "deductions %s", breakdown.DeductionTotal)
}

func TestCalculate_SalariedSickLeavePartialPay(t *testing.T) {
	t.Parallel()

	profile := salariedProfile(t, "2000")
	profile.SickLeaveRules = []compensation.SickLeaveRule{
		{ID: "slr-1", EmployeeID: "emp-1", Percentage: decimal.NewFromInt(80),
			Window: openWindow(t, 2024, time.January, 1)},
	}

	// 2 sick days at 80% of a $100 daily rate: -$40 adjustment.
	breakdown, advisories, err := Calculate(CalculationInput{
		Period:  dates.MonthlyPeriod(2025, time.January),
		Profile: profile,
		Worked:  timesheet.NewWorkedHours(),
		Impact: absence.Impact{
			UnpaidDays: decimal.Zero,
			Consumptions: []absence.Consumption{
				{Type: absence.TypeSickLeave, Year: 2025, Days: decimal.RequireFromString("2")},
			},
		},
		WorkingDays: 20,
	})

	require.NoError(t, err)
	assert.Empty(t, advisories)
	assert.True(t, breakdown.SickLeaveAdjustment.Equal(decimal.RequireFromString("-40")), "adjustment %s", breakdown.SickLeaveAdjustment)
	assert.True(t, breakdown.NetPay.Equal(decimal.RequireFromString("1960")))
}

func TestCalculate_SickLeaveBeyondCapUnpaid(t *testing.T) {
	t.Parallel()

	maxDays := 3
	profile := salariedProfile(t, "2000")
	profile.SickLeaveRules = []compensation.SickLeaveRule{
		{ID: "slr-1", EmployeeID: "emp-1", Percentage: decimal.NewFromInt(100), MaxDays: &maxDays,
			Window: openWindow(t, 2024, time.January, 1)},
	}

	// 5 sick days against a 3-day cap: 3 fully paid, 2 unpaid ($100/day).
	breakdown, advisories, err := Calculate(CalculationInput{
		Period:  dates.MonthlyPeriod(2025, time.January),
		Profile: profile,
		Worked:  timesheet.NewWorkedHours(),
		Impact: absence.Impact{
			UnpaidDays: decimal.Zero,
			Consumptions: []absence.Consumption{
				{Type: absence.TypeSickLeave, Year: 2025, Days: decimal.RequireFromString("5")},
			},
		},
		WorkingDays: 20,
	})

	require.NoError(t, err)
	require.Len(t, advisories, 1)
	assert.Equal(t, payroll.AdvisoryExceedsSickCap, advisories[0].Code)
	assert.True(t, breakdown.SickLeaveAdjustment.Equal(decimal.RequireFromString("-200")), "adjustment %s", breakdown.SickLeaveAdjustment)
}

func TestCalculate_HourlySickLeavePaidOnTop(t *testing.T) {
	t.Parallel()

	profile := hourlyProfile(t, "20")
	profile.SickLeaveRules = []compensation.SickLeaveRule{
		{ID: "slr-1", EmployeeID: "emp-1", Percentage: decimal.NewFromInt(50),
			Window: openWindow(t, 2024, time.January, 1)},
	}

	// Hourly staff log no hours on sick days, so covered days are added:
	// 2 days * 8h * $20 * 50% = $160.
	breakdown, _, err := Calculate(CalculationInput{
		Period:  dates.MonthlyPeriod(2025, time.January),
		Profile: profile,
		Worked:  workedWith("60", timesheet.OvertimeRegular, ""),
		Impact: absence.Impact{
			UnpaidDays: decimal.Zero,
			Consumptions: []absence.Consumption{
				{Type: absence.TypeSickLeave, Year: 2025, Days: decimal.RequireFromString("2")},
			},
		},
	})

	require.NoError(t, err)
	assert.True(t, breakdown.SickLeaveAdjustment.Equal(decimal.RequireFromString("160")), "adjustment %s", breakdown.SickLeaveAdjustment)
	assert.True(t, breakdown.NetPay.Equal(decimal.RequireFromString("1360")))
}

func TestCalculate_NetPayFlooredAtZero(t *testing.T) {
	t.Parallel()

	profile := salariedProfile(t, "100")
	profile.Deductions = []compensation.Deduction{
		{ID: "ded-1", EmployeeID: "emp-1", Type: compensation.DeductionLoan,
			Amount: usd(t, "500"), Window: openWindow(t, 2024, time.January, 1)},
	}

	breakdown, advisories, err := Calculate(CalculationInput{
		Period:  dates.MonthlyPeriod(2025, time.January),
		Profile: profile,
		Worked:  timesheet.NewWorkedHours(),
		Impact:  noImpact(),
	})

	require.NoError(t, err)
	require.Len(t, advisories, 1)
	assert.Equal(t, payroll.AdvisoryNetPayFloored, advisories[0].Code)
	assert.True(t, breakdown.NetPay.IsZero())
	// Components keep their real values; only the net is floored.
	assert.True(t, breakdown.DeductionTotal.Equal(decimal.RequireFromString("500")))
}

func TestCalculate_BonusesIncluded(t *testing.T) {
	t.Parallel()

	profile := salariedProfile(t, "2000")
	profile.Bonuses = []compensation.Bonus{
		{ID: "bonus-1", EmployeeID: "emp-1", Type: compensation.BonusPerformance, Amount: usd(t, "250"),
			PaymentDate: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{ID: "bonus-2", EmployeeID: "emp-1", Type: compensation.BonusProject, Amount: usd(t, "100"),
			PaymentDate: time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)},
	}

	breakdown, _, err := Calculate(CalculationInput{
		Period:      dates.MonthlyPeriod(2025, time.January),
		Profile:     profile,
		Worked:      timesheet.NewWorkedHours(),
		Impact:      noImpact(),
		WorkingDays: 20,
	})

	require.NoError(t, err)
	assert.True(t, breakdown.BonusTotal.Equal(decimal.RequireFromString("350")))
	assert.True(t, breakdown.NetPay.Equal(decimal.RequireFromString("2350")))
}

func TestCalculate_Deterministic(t *testing.T) {
	t.Parallel()

	profile := hourlyProfile(t, "22.50")
	profile.OvertimeRules = []compensation.OvertimeRule{
		overtimeRule(t, timesheet.OvertimeRegular, "1.5", "80"),
		overtimeRule(t, timesheet.OvertimeWeekend, "2", "0"),
	}
	worked := workedWith("80", timesheet.OvertimeRegular, "7.5")
	worked.OvertimeByCategory[timesheet.OvertimeWeekend] = decimal.RequireFromString("4")

	in := CalculationInput{
		Period:  dates.MonthlyPeriod(2025, time.January),
		Profile: profile,
		Worked:  worked,
		Impact:  noImpact(),
	}

	first, firstAdvisories, err := Calculate(in)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, againAdvisories, err := Calculate(in)
		require.NoError(t, err)
		assert.True(t, first.NetPay.Equal(again.NetPay))
		assert.True(t, first.OvertimePay.Equal(again.OvertimePay))
		assert.Equal(t, firstAdvisories, againAdvisories)
	}
}
