package contract

import (
	"context"
	"time"
)

type ContractRepository interface {
	GetByID(ctx context.Context, id string) (Contract, error)
	// GetActiveForEmployee returns the contract active at the given date,
	// or ErrNoActiveContract.
	GetActiveForEmployee(ctx context.Context, employeeID string, at time.Time) (Contract, error)
}
