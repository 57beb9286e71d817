package postgresql

import (
	"context"
	"time"

	"github.com/paycove/payroll-backend-go/internal/domain/contract"
	"github.com/paycove/payroll-backend-go/internal/pkg/database"
)

type contractRepository struct {
	db *database.DB
}

func NewContractRepository(db *database.DB) contract.ContractRepository {
	return &contractRepository{db: db}
}

// GetByID implements contract.ContractRepository.
func (r *contractRepository) GetByID(ctx context.Context, id string) (contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, status, valid_from, valid_to, created_at, updated_at
		FROM contracts
		WHERE id = $1
	`

	var c contract.Contract
	err := q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.EmployeeID, &c.Status,
		&c.Window.ValidFrom, &c.Window.ValidTo,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return contract.Contract{}, err
	}
	return c, nil
}

// GetActiveForEmployee implements contract.ContractRepository.
func (r *contractRepository) GetActiveForEmployee(ctx context.Context, employeeID string, at time.Time) (contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, status, valid_from, valid_to, created_at, updated_at
		FROM contracts
		WHERE employee_id = $1
		  AND status = 'active'
		  AND valid_from <= $2
		  AND (valid_to IS NULL OR valid_to >= $2)
		ORDER BY valid_from DESC
		LIMIT 1
	`

	var c contract.Contract
	err := q.QueryRow(ctx, query, employeeID, at).Scan(
		&c.ID, &c.EmployeeID, &c.Status,
		&c.Window.ValidFrom, &c.Window.ValidTo,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return contract.Contract{}, err
	}
	return c, nil
}
