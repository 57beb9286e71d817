package contract

import (
	"time"

	"github.com/paycove/payroll-backend-go/internal/domain/dates"
)

// ContractStatus enum
type ContractStatus string

const (
	StatusActive   ContractStatus = "active"
	StatusPending  ContractStatus = "pending"
	StatusExpired  ContractStatus = "expired"
	StatusCanceled ContractStatus = "canceled"
)

// Contract records the employment agreement a payroll run is validated against.
// The engine only checks that one is active for the period; compensation terms
// come from the compensation module.
type Contract struct {
	ID         string
	EmployeeID string
	Status     ContractStatus
	Window     dates.Window
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (c Contract) IsActiveAt(d time.Time) bool {
	return c.Status == StatusActive && c.Window.ActiveAt(d)
}
