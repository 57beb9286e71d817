package payroll

import (
	"time"

	"github.com/paycove/payroll-backend-go/internal/domain/absence"
	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	StatusDraft      PayrollStatus = "draft"
	StatusCalculated PayrollStatus = "calculated"
	StatusApproved   PayrollStatus = "approved"
	StatusProcessed  PayrollStatus = "processed"
	StatusPaid       PayrollStatus = "paid"
	StatusCancelled  PayrollStatus = "cancelled"
)

// Breakdown is the computed pay for one payroll, all amounts in one currency.
type Breakdown struct {
	Currency            string          `json:"currency"`
	RegularPay          decimal.Decimal `json:"regular_pay"`
	OvertimePay         decimal.Decimal `json:"overtime_pay"`
	BonusTotal          decimal.Decimal `json:"bonus_total"`
	DeductionTotal      decimal.Decimal `json:"deduction_total"`
	SickLeaveAdjustment decimal.Decimal `json:"sick_leave_adjustment"`
	NetPay              decimal.Decimal `json:"net_pay"`
}

// Payroll is the aggregate root: one employee, one period, one breakdown,
// guarded by a status machine and an optimistic-concurrency version.
type Payroll struct {
	ID         string
	EmployeeID string
	Period     dates.Period
	Status     PayrollStatus
	Version    int64
	Breakdown  *Breakdown
	// Consumptions holds the balance draw-downs of the latest calculation so
	// a recalculation can reverse them before consuming fresh.
	Consumptions     []absence.Consumption
	PaymentReference *string
	ApprovedBy       *string
	ApprovedAt       *time.Time
	ProcessedAt      *time.Time
	PaidAt           *time.Time
	CancelledBy      *string
	Notes            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CanTransitionTo is the single source of truth for legal status transitions.
func (p Payroll) CanTransitionTo(next PayrollStatus) bool {
	switch next {
	case StatusCalculated:
		return p.Status == StatusDraft || p.Status == StatusCalculated
	case StatusApproved:
		return p.Status == StatusCalculated
	case StatusProcessed:
		return p.Status == StatusApproved
	case StatusPaid:
		return p.Status == StatusProcessed
	case StatusCancelled:
		return p.Status == StatusDraft || p.Status == StatusCalculated || p.Status == StatusApproved
	}
	return false
}

// SetCalculated replaces the prior breakdown entirely; calculation is never
// additive.
func (p *Payroll) SetCalculated(b Breakdown, consumptions []absence.Consumption) error {
	if !p.CanTransitionTo(StatusCalculated) {
		return ErrInvalidStateTransition
	}
	p.Breakdown = &b
	p.Consumptions = consumptions
	p.Status = StatusCalculated
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (p *Payroll) Approve(approverID string) error {
	if !p.CanTransitionTo(StatusApproved) {
		return ErrInvalidStateTransition
	}
	// A calculated payroll always carries a breakdown; a row without one is
	// corrupt and must not reach approval.
	if p.Breakdown == nil {
		return ErrNotCalculated
	}
	now := time.Now().UTC()
	p.Status = StatusApproved
	p.ApprovedBy = &approverID
	p.ApprovedAt = &now
	p.UpdatedAt = now
	return nil
}

func (p *Payroll) Process() error {
	if !p.CanTransitionTo(StatusProcessed) {
		return ErrInvalidStateTransition
	}
	now := time.Now().UTC()
	p.Status = StatusProcessed
	p.ProcessedAt = &now
	p.UpdatedAt = now
	return nil
}

func (p *Payroll) MarkPaid(paymentReference string) error {
	if paymentReference == "" {
		return ErrPaymentReferenceRequired
	}
	if !p.CanTransitionTo(StatusPaid) {
		return ErrInvalidStateTransition
	}
	now := time.Now().UTC()
	p.Status = StatusPaid
	p.PaymentReference = &paymentReference
	p.PaidAt = &now
	p.UpdatedAt = now
	return nil
}

func (p *Payroll) Cancel(actorID string) error {
	if !p.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStateTransition
	}
	p.Status = StatusCancelled
	p.CancelledBy = &actorID
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// AdvisoryCode enum for non-fatal conditions surfaced alongside a result.
type AdvisoryCode string

const (
	AdvisoryAmbiguousRate  AdvisoryCode = "AMBIGUOUS_RATE"
	AdvisoryNetPayFloored  AdvisoryCode = "NET_PAY_FLOORED"
	AdvisoryExceedsSickCap AdvisoryCode = "EXCEEDS_SICK_LEAVE_CAP"
)

type Advisory struct {
	Code    AdvisoryCode `json:"code"`
	Message string       `json:"message"`
}
