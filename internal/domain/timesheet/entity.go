package timesheet

import (
	"time"

	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/shopspring/decimal"
)

// TimesheetStatus enum
type TimesheetStatus string

const (
	StatusDraft     TimesheetStatus = "draft"
	StatusSubmitted TimesheetStatus = "submitted"
	StatusApproved  TimesheetStatus = "approved"
	StatusRejected  TimesheetStatus = "rejected"
)

// OvertimeCategory enum
type OvertimeCategory string

const (
	OvertimeRegular    OvertimeCategory = "regular"
	OvertimeWeekend    OvertimeCategory = "weekend"
	OvertimeHoliday    OvertimeCategory = "holiday"
	OvertimeNightShift OvertimeCategory = "night_shift"
)

func (c OvertimeCategory) Valid() bool {
	switch c {
	case OvertimeRegular, OvertimeWeekend, OvertimeHoliday, OvertimeNightShift:
		return true
	}
	return false
}

// Timesheet covers worked hours over an inclusive date range. Only approved
// rows count toward payroll.
type Timesheet struct {
	ID               string
	EmployeeID       string
	StartDate        time.Time
	EndDate          time.Time
	Hours            decimal.Decimal
	OvertimeHours    decimal.Decimal
	OvertimeCategory *OvertimeCategory
	Status           TimesheetStatus
	RejectionReason  *string
	SubmittedAt      *time.Time
	ApprovedAt       *time.Time
	ApprovedBy       *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate enforces the construction invariants: non-negative hours, ordered
// dates, and an overtime category present exactly when overtime hours are.
func (t Timesheet) Validate() error {
	if t.EndDate.Before(t.StartDate) {
		return ErrInvalidTimesheetRange
	}
	if t.Hours.IsNegative() || t.OvertimeHours.IsNegative() {
		return ErrNegativeHours
	}
	if t.OvertimeHours.IsPositive() && t.OvertimeCategory == nil {
		return ErrOvertimeCategoryRequired
	}
	if !t.OvertimeHours.IsPositive() && t.OvertimeCategory != nil {
		return ErrOvertimeCategoryForbidden
	}
	if t.OvertimeCategory != nil && !t.OvertimeCategory.Valid() {
		return ErrInvalidOvertimeCategory
	}
	return nil
}

func (t Timesheet) Range() dates.Period {
	return dates.Period{Start: dates.Truncate(t.StartDate), End: dates.Truncate(t.EndDate)}
}

func (t *Timesheet) Submit() error {
	if t.Status != StatusDraft {
		return ErrInvalidTimesheetStatus
	}
	now := time.Now().UTC()
	t.Status = StatusSubmitted
	t.SubmittedAt = &now
	t.UpdatedAt = now
	return nil
}

func (t *Timesheet) Approve(approverID string) error {
	if t.Status != StatusSubmitted {
		return ErrInvalidTimesheetStatus
	}
	now := time.Now().UTC()
	t.Status = StatusApproved
	t.ApprovedAt = &now
	t.ApprovedBy = &approverID
	t.RejectionReason = nil
	t.UpdatedAt = now
	return nil
}

func (t *Timesheet) Reject(reason string) error {
	if t.Status != StatusSubmitted {
		return ErrInvalidTimesheetStatus
	}
	if reason == "" {
		return ErrRejectionReasonRequired
	}
	t.Status = StatusRejected
	t.RejectionReason = &reason
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// WorkedHours is the aggregation result for one employee and period: regular
// hours plus overtime split per category.
type WorkedHours struct {
	RegularHours       decimal.Decimal
	OvertimeByCategory map[OvertimeCategory]decimal.Decimal
}

func NewWorkedHours() WorkedHours {
	return WorkedHours{
		RegularHours:       decimal.Zero,
		OvertimeByCategory: make(map[OvertimeCategory]decimal.Decimal),
	}
}

func (w WorkedHours) TotalOvertime() decimal.Decimal {
	total := decimal.Zero
	for _, h := range w.OvertimeByCategory {
		total = total.Add(h)
	}
	return total
}
