package compensation

import (
	"time"

	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/paycove/payroll-backend-go/internal/domain/money"
	"github.com/paycove/payroll-backend-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

// RateType enum
type RateType string

const (
	RateSalary     RateType = "salary"
	RateHourly     RateType = "hourly"
	RateCommission RateType = "commission"
)

func (t RateType) Valid() bool {
	switch t {
	case RateSalary, RateHourly, RateCommission:
		return true
	}
	return false
}

// Rate is the base compensation for an employee over a validity window.
// Windows for one employee and type must not overlap; the resolver tolerates
// upstream violations deterministically (latest valid_from wins).
type Rate struct {
	ID          string
	EmployeeID  string
	Type        RateType
	Amount      money.Money
	Window      dates.Window
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BonusType enum
type BonusType string

const (
	BonusPerformance BonusType = "performance"
	BonusAnnual      BonusType = "annual"
	BonusSigning     BonusType = "signing"
	BonusRetention   BonusType = "retention"
	BonusProject     BonusType = "project"
	BonusHoliday     BonusType = "holiday"
)

// Bonus is a one-off payment tied to a single payment date.
type Bonus struct {
	ID          string
	EmployeeID  string
	Type        BonusType
	Amount      money.Money
	PaymentDate time.Time
	Description *string
	CreatedAt   time.Time
}

// DeductionType enum
type DeductionType string

const (
	DeductionTax       DeductionType = "tax"
	DeductionInsurance DeductionType = "insurance"
	DeductionPension   DeductionType = "pension"
	DeductionLoan      DeductionType = "loan"
	DeductionOther     DeductionType = "other"
)

// Deduction is a recurring amount withheld while its window is active.
type Deduction struct {
	ID          string
	EmployeeID  string
	Type        DeductionType
	Amount      money.Money
	Window      dates.Window
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OvertimeRule prices one overtime category: hours beyond the threshold are
// paid at the multiplier, hours at or below it at the plain hourly rate.
type OvertimeRule struct {
	ID             string
	EmployeeID     string
	Category       timesheet.OvertimeCategory
	Multiplier     decimal.Decimal
	ThresholdHours decimal.Decimal
	Window         dates.Window
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r OvertimeRule) Validate() error {
	if r.Multiplier.LessThan(decimal.NewFromInt(1)) {
		return ErrInvalidMultiplier
	}
	if r.ThresholdHours.IsNegative() {
		return ErrInvalidThreshold
	}
	if !r.Category.Valid() {
		return timesheet.ErrInvalidOvertimeCategory
	}
	return nil
}

// SickLeaveRule pays sick days at a percentage of the daily rate, optionally
// capped at MaxDays per year.
type SickLeaveRule struct {
	ID         string
	EmployeeID string
	Percentage decimal.Decimal
	MaxDays    *int
	Window     dates.Window
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r SickLeaveRule) Validate() error {
	if !r.Percentage.IsPositive() || r.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidPercentage
	}
	if r.MaxDays != nil && *r.MaxDays <= 0 {
		return ErrInvalidMaxDays
	}
	return nil
}

// Profile is the resolved compensation picture for one employee and period:
// the single active rate plus every bonus, deduction and rule applicable to
// the period, all in one currency.
type Profile struct {
	Rate           Rate
	Bonuses        []Bonus
	Deductions     []Deduction
	OvertimeRules  []OvertimeRule
	SickLeaveRules []SickLeaveRule
	Currency       string
}

// OvertimeRuleFor selects the rule for a category whose window overlaps the
// period; with several candidates the latest valid_from wins.
func (p Profile) OvertimeRuleFor(category timesheet.OvertimeCategory, period dates.Period) (OvertimeRule, bool) {
	var best OvertimeRule
	found := false
	for _, r := range p.OvertimeRules {
		if r.Category != category || !r.Window.Overlaps(period) {
			continue
		}
		if !found || r.Window.ValidFrom.After(best.Window.ValidFrom) {
			best = r
			found = true
		}
	}
	return best, found
}

// SickLeaveRuleFor selects the sick-leave rule active for the period, latest
// valid_from winning on overlap.
func (p Profile) SickLeaveRuleFor(period dates.Period) (SickLeaveRule, bool) {
	var best SickLeaveRule
	found := false
	for _, r := range p.SickLeaveRules {
		if !r.Window.Overlaps(period) {
			continue
		}
		if !found || r.Window.ValidFrom.After(best.Window.ValidFrom) {
			best = r
			found = true
		}
	}
	return best, found
}
