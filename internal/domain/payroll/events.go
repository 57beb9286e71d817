package payroll

import "time"

// EventKind enum
type EventKind string

const (
	EventCreated    EventKind = "payroll.created"
	EventCalculated EventKind = "payroll.calculated"
	EventApproved   EventKind = "payroll.approved"
	EventProcessed  EventKind = "payroll.processed"
	EventPaid       EventKind = "payroll.paid"
	EventCancelled  EventKind = "payroll.cancelled"
)

// Event is a domain event emitted after a committed state transition.
// Delivery is at-least-once and outside the transaction boundary.
type Event struct {
	Kind             EventKind     `json:"kind"`
	PayrollID        string        `json:"payroll_id"`
	EmployeeID       string        `json:"employee_id"`
	ActorID          string        `json:"actor_id"`
	Status           PayrollStatus `json:"status"`
	Breakdown        *Breakdown    `json:"breakdown,omitempty"`
	PaymentReference *string       `json:"payment_reference,omitempty"`
	OccurredAt       time.Time     `json:"occurred_at"`
}

// NewEvent snapshots the aggregate's current state.
func NewEvent(kind EventKind, p Payroll, actorID string) Event {
	return Event{
		Kind:             kind,
		PayrollID:        p.ID,
		EmployeeID:       p.EmployeeID,
		ActorID:          actorID,
		Status:           p.Status,
		Breakdown:        p.Breakdown,
		PaymentReference: p.PaymentReference,
		OccurredAt:       time.Now().UTC(),
	}
}
