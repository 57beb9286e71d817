package absence

import (
	"time"

	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/shopspring/decimal"
)

// AbsenceType enum
type AbsenceType string

const (
	TypeVacation      AbsenceType = "vacation"
	TypeSickLeave     AbsenceType = "sick_leave"
	TypeParentalLeave AbsenceType = "parental_leave"
	TypeUnpaidLeave   AbsenceType = "unpaid_leave"
	TypeBereavement   AbsenceType = "bereavement"
	TypeStudyLeave    AbsenceType = "study_leave"
	TypeCompassionate AbsenceType = "compassionate"
)

func (t AbsenceType) Valid() bool {
	switch t {
	case TypeVacation, TypeSickLeave, TypeParentalLeave, TypeUnpaidLeave,
		TypeBereavement, TypeStudyLeave, TypeCompassionate:
		return true
	}
	return false
}

// IsPaid reports whether days of this type keep their pay. Paid days consume
// the matching balance; unpaid days reduce pay instead.
func (t AbsenceType) IsPaid() bool {
	return t != TypeUnpaidLeave
}

// AbsenceStatus enum
type AbsenceStatus string

const (
	StatusPending   AbsenceStatus = "pending"
	StatusApproved  AbsenceStatus = "approved"
	StatusRejected  AbsenceStatus = "rejected"
	StatusCancelled AbsenceStatus = "cancelled"
)

// AbsenceRecord is a leave request over an inclusive date range. Only approved
// records affect payroll.
type AbsenceRecord struct {
	ID         string
	EmployeeID string
	Type       AbsenceType
	Status     AbsenceStatus
	StartDate  time.Time
	EndDate    time.Time
	Reason     *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (a AbsenceRecord) Validate() error {
	if a.EndDate.Before(a.StartDate) {
		return ErrInvalidAbsenceRange
	}
	if !a.Type.Valid() {
		return ErrInvalidAbsenceType
	}
	return nil
}

func (a AbsenceRecord) Range() dates.Period {
	return dates.Period{Start: dates.Truncate(a.StartDate), End: dates.Truncate(a.EndDate)}
}

func (a AbsenceRecord) Days() decimal.Decimal {
	return decimal.NewFromInt(int64(a.Range().Days()))
}

func (a *AbsenceRecord) Approve() error {
	if a.Status != StatusPending {
		return ErrInvalidAbsenceStatus
	}
	a.Status = StatusApproved
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (a *AbsenceRecord) Reject() error {
	if a.Status != StatusPending {
		return ErrInvalidAbsenceStatus
	}
	a.Status = StatusRejected
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (a *AbsenceRecord) Cancel() error {
	if a.Status != StatusPending && a.Status != StatusApproved {
		return ErrInvalidAbsenceStatus
	}
	a.Status = StatusCancelled
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// AbsenceBalance tracks the yearly allowance for one employee and absence type.
// used_days never exceeds total_days and never goes negative.
type AbsenceBalance struct {
	ID         string
	EmployeeID string
	Type       AbsenceType
	Year       int
	TotalDays  decimal.Decimal
	UsedDays   decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (b AbsenceBalance) RemainingDays() decimal.Decimal {
	return b.TotalDays.Sub(b.UsedDays)
}

func (b AbsenceBalance) CanTake(days decimal.Decimal) bool {
	return b.RemainingDays().GreaterThanOrEqual(days)
}

func (b *AbsenceBalance) Consume(days decimal.Decimal) error {
	if days.IsNegative() {
		return ErrNegativeDays
	}
	if !b.CanTake(days) {
		return ErrInsufficientBalance
	}
	b.UsedDays = b.UsedDays.Add(days)
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// Return gives previously consumed days back, e.g. when a payroll is
// recalculated and its prior consumption is reversed.
func (b *AbsenceBalance) Return(days decimal.Decimal) error {
	if days.IsNegative() {
		return ErrNegativeDays
	}
	if days.GreaterThan(b.UsedDays) {
		return ErrReturnExceedsUsed
	}
	b.UsedDays = b.UsedDays.Sub(days)
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// Consumption is one balance draw-down planned by a payroll calculation:
// the year is derived from the absence's own start date.
type Consumption struct {
	Type AbsenceType     `json:"type"`
	Year int             `json:"year"`
	Days decimal.Decimal `json:"days"`
}

// Impact is the adjuster output for one employee and period.
type Impact struct {
	UnpaidDays   decimal.Decimal
	Consumptions []Consumption
}

// SickDays sums planned consumption of sick-leave days per year.
func (i Impact) SickDays() map[int]decimal.Decimal {
	out := make(map[int]decimal.Decimal)
	for _, c := range i.Consumptions {
		if c.Type == TypeSickLeave {
			out[c.Year] = out[c.Year].Add(c.Days)
		}
	}
	return out
}
