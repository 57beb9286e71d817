package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/paycove/payroll-backend-go/internal/domain/payroll"
	"github.com/paycove/payroll-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	id, employee_id, period_start, period_end, status, version, breakdown, consumptions,
	payment_reference, approved_by, approved_at, processed_at, paid_at, cancelled_by,
	notes, created_at, updated_at
`

// breakdown and consumptions travel as JSONB: they are written and read as a
// unit, never queried field by field.
func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var (
		p                payroll.Payroll
		breakdownJSON    []byte
		consumptionsJSON []byte
	)
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.Period.Start, &p.Period.End,
		&p.Status, &p.Version, &breakdownJSON, &consumptionsJSON,
		&p.PaymentReference, &p.ApprovedBy, &p.ApprovedAt,
		&p.ProcessedAt, &p.PaidAt, &p.CancelledBy,
		&p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return payroll.Payroll{}, err
	}
	if len(breakdownJSON) > 0 {
		var b payroll.Breakdown
		if err := json.Unmarshal(breakdownJSON, &b); err != nil {
			return payroll.Payroll{}, fmt.Errorf("failed to decode breakdown: %w", err)
		}
		p.Breakdown = &b
	}
	if len(consumptionsJSON) > 0 {
		if err := json.Unmarshal(consumptionsJSON, &p.Consumptions); err != nil {
			return payroll.Payroll{}, fmt.Errorf("failed to decode consumptions: %w", err)
		}
	}
	return p, nil
}

func encodePayrollJSON(p payroll.Payroll) (breakdown, consumptions []byte, err error) {
	if p.Breakdown != nil {
		breakdown, err = json.Marshal(p.Breakdown)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode breakdown: %w", err)
		}
	}
	if p.Consumptions != nil {
		consumptions, err = json.Marshal(p.Consumptions)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode consumptions: %w", err)
		}
	}
	return breakdown, consumptions, nil
}

// Create implements payroll.PayrollRepository.
func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			id, employee_id, period_start, period_end, status, version, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.ID, p.EmployeeID, p.Period.Start, p.Period.End,
		p.Status, p.Version, p.Notes, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.Payroll{}, payroll.ErrDuplicatePayroll
		}
		return payroll.Payroll{}, fmt.Errorf("failed to insert payroll: %w", err)
	}
	return p, nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + ` FROM payrolls WHERE id = $1`
	return scanPayroll(q.QueryRow(ctx, query, id))
}

// GetByEmployeePeriod implements payroll.PayrollRepository.
func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, period dates.Period) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + `
		FROM payrolls
		WHERE employee_id = $1 AND period_start = $2 AND period_end = $3
	`
	return scanPayroll(q.QueryRow(ctx, query, employeeID, period.Start, period.End))
}

// List implements payroll.PayrollRepository.
func (r *payrollRepository) List(ctx context.Context, filter payroll.ListFilter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE 1=1"
	args := []interface{}{}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		where += " AND employee_id = $" + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += " AND status = $" + strconv.Itoa(len(args))
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM payrolls"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := `SELECT ` + payrollColumns + ` FROM payrolls` + where +
		` ORDER BY period_start DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) +
		` OFFSET $` + strconv.Itoa(len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	return payrolls, total, rows.Err()
}

// UpdateVersioned implements payroll.PayrollRepository. The WHERE clause on
// version makes the write a compare-and-swap: a stale caller matches zero
// rows and gets ErrConcurrencyConflict without touching the row.
func (r *payrollRepository) UpdateVersioned(ctx context.Context, p payroll.Payroll, expectedVersion int64) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	breakdownJSON, consumptionsJSON, err := encodePayrollJSON(p)
	if err != nil {
		return payroll.Payroll{}, err
	}

	query := `
		UPDATE payrolls
		SET status = $3, version = version + 1, breakdown = $4, consumptions = $5,
		    payment_reference = $6, approved_by = $7, approved_at = $8,
		    processed_at = $9, paid_at = $10, cancelled_by = $11, updated_at = $12
		WHERE id = $1 AND version = $2
		RETURNING version
	`

	err = q.QueryRow(ctx, query,
		p.ID, expectedVersion, p.Status, breakdownJSON, consumptionsJSON,
		p.PaymentReference, p.ApprovedBy, p.ApprovedAt,
		p.ProcessedAt, p.PaidAt, p.CancelledBy, p.UpdatedAt,
	).Scan(&p.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrConcurrencyConflict
		}
		return payroll.Payroll{}, fmt.Errorf("failed to update payroll: %w", err)
	}
	return p, nil
}
