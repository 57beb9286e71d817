package absence

import (
	"context"

	"github.com/paycove/payroll-backend-go/internal/domain/dates"
)

type AbsenceRepository interface {
	Create(ctx context.Context, rec AbsenceRecord) (AbsenceRecord, error)
	GetByID(ctx context.Context, id string) (AbsenceRecord, error)
	Update(ctx context.Context, rec AbsenceRecord) error
	ListByEmployee(ctx context.Context, employeeID string) ([]AbsenceRecord, error)
	// ListApprovedOverlapping returns approved records whose range intersects
	// the period.
	ListApprovedOverlapping(ctx context.Context, employeeID string, period dates.Period) ([]AbsenceRecord, error)
}

type AbsenceBalanceRepository interface {
	Create(ctx context.Context, bal AbsenceBalance) (AbsenceBalance, error)
	Get(ctx context.Context, employeeID string, absenceType AbsenceType, year int) (AbsenceBalance, error)
	ListByEmployee(ctx context.Context, employeeID string, year int) ([]AbsenceBalance, error)
	// Update persists total/used day changes; the caller mutates via the
	// entity's Consume/Return so the invariants hold.
	Update(ctx context.Context, bal AbsenceBalance) error
}
