package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/paycove/payroll-backend-go/internal/domain/compensation"
	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/paycove/payroll-backend-go/internal/pkg/database"
)

type compensationRepository struct {
	db *database.DB
}

func NewCompensationRepository(db *database.DB) compensation.CompensationRepository {
	return &compensationRepository{db: db}
}

const rateColumns = `
	id, employee_id, type, amount, currency, valid_from, valid_to, description, created_at, updated_at
`

func scanRate(row pgx.Row) (compensation.Rate, error) {
	var rate compensation.Rate
	err := row.Scan(
		&rate.ID, &rate.EmployeeID, &rate.Type,
		&rate.Amount.Amount, &rate.Amount.Currency,
		&rate.Window.ValidFrom, &rate.Window.ValidTo,
		&rate.Description, &rate.CreatedAt, &rate.UpdatedAt,
	)
	return rate, err
}

// CreateRate implements compensation.CompensationRepository.
func (r *compensationRepository) CreateRate(ctx context.Context, rate compensation.Rate) (compensation.Rate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO compensation_rates (
			id, employee_id, type, amount, currency, valid_from, valid_to, description, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rate.ID, rate.EmployeeID, rate.Type,
		rate.Amount.Amount, rate.Amount.Currency,
		rate.Window.ValidFrom, rate.Window.ValidTo,
		rate.Description, rate.CreatedAt, rate.UpdatedAt,
	).Scan(&rate.CreatedAt, &rate.UpdatedAt)
	if err != nil {
		return compensation.Rate{}, fmt.Errorf("failed to insert rate: %w", err)
	}
	return rate, nil
}

// ListRatesByEmployee implements compensation.CompensationRepository.
func (r *compensationRepository) ListRatesByEmployee(ctx context.Context, employeeID string) ([]compensation.Rate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rateColumns + ` FROM compensation_rates WHERE employee_id = $1 ORDER BY valid_from DESC`
	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	defer rows.Close()

	return collectRates(rows)
}

// ListRatesCovering implements compensation.CompensationRepository.
func (r *compensationRepository) ListRatesCovering(ctx context.Context, employeeID string, at time.Time) ([]compensation.Rate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rateColumns + `
		FROM compensation_rates
		WHERE employee_id = $1
		  AND valid_from <= $2
		  AND (valid_to IS NULL OR valid_to >= $2)
		ORDER BY valid_from
	`

	rows, err := q.Query(ctx, query, employeeID, at)
	if err != nil {
		return nil, fmt.Errorf("failed to list covering rates: %w", err)
	}
	defer rows.Close()

	return collectRates(rows)
}

func collectRates(rows pgx.Rows) ([]compensation.Rate, error) {
	var rates []compensation.Rate
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

// CreateBonus implements compensation.CompensationRepository.
func (r *compensationRepository) CreateBonus(ctx context.Context, bonus compensation.Bonus) (compensation.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO compensation_bonuses (id, employee_id, type, amount, currency, payment_date, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		bonus.ID, bonus.EmployeeID, bonus.Type,
		bonus.Amount.Amount, bonus.Amount.Currency,
		bonus.PaymentDate, bonus.Description, bonus.CreatedAt,
	).Scan(&bonus.CreatedAt)
	if err != nil {
		return compensation.Bonus{}, fmt.Errorf("failed to insert bonus: %w", err)
	}
	return bonus, nil
}

// ListBonusesInPeriod implements compensation.CompensationRepository.
func (r *compensationRepository) ListBonusesInPeriod(ctx context.Context, employeeID string, period dates.Period) ([]compensation.Bonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, type, amount, currency, payment_date, description, created_at
		FROM compensation_bonuses
		WHERE employee_id = $1
		  AND payment_date BETWEEN $2 AND $3
		ORDER BY payment_date
	`

	rows, err := q.Query(ctx, query, employeeID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonuses: %w", err)
	}
	defer rows.Close()

	var bonuses []compensation.Bonus
	for rows.Next() {
		var bonus compensation.Bonus
		if err := rows.Scan(
			&bonus.ID, &bonus.EmployeeID, &bonus.Type,
			&bonus.Amount.Amount, &bonus.Amount.Currency,
			&bonus.PaymentDate, &bonus.Description, &bonus.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bonus: %w", err)
		}
		bonuses = append(bonuses, bonus)
	}
	return bonuses, rows.Err()
}

// CreateDeduction implements compensation.CompensationRepository.
func (r *compensationRepository) CreateDeduction(ctx context.Context, ded compensation.Deduction) (compensation.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO compensation_deductions (
			id, employee_id, type, amount, currency, valid_from, valid_to, description, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		ded.ID, ded.EmployeeID, ded.Type,
		ded.Amount.Amount, ded.Amount.Currency,
		ded.Window.ValidFrom, ded.Window.ValidTo,
		ded.Description, ded.CreatedAt, ded.UpdatedAt,
	).Scan(&ded.CreatedAt, &ded.UpdatedAt)
	if err != nil {
		return compensation.Deduction{}, fmt.Errorf("failed to insert deduction: %w", err)
	}
	return ded, nil
}

// ListDeductionsOverlapping implements compensation.CompensationRepository.
func (r *compensationRepository) ListDeductionsOverlapping(ctx context.Context, employeeID string, period dates.Period) ([]compensation.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, type, amount, currency, valid_from, valid_to, description, created_at, updated_at
		FROM compensation_deductions
		WHERE employee_id = $1
		  AND valid_from <= $3
		  AND (valid_to IS NULL OR valid_to >= $2)
		ORDER BY valid_from
	`

	rows, err := q.Query(ctx, query, employeeID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}
	defer rows.Close()

	var deductions []compensation.Deduction
	for rows.Next() {
		var ded compensation.Deduction
		if err := rows.Scan(
			&ded.ID, &ded.EmployeeID, &ded.Type,
			&ded.Amount.Amount, &ded.Amount.Currency,
			&ded.Window.ValidFrom, &ded.Window.ValidTo,
			&ded.Description, &ded.CreatedAt, &ded.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deduction: %w", err)
		}
		deductions = append(deductions, ded)
	}
	return deductions, rows.Err()
}

// CreateOvertimeRule implements compensation.CompensationRepository.
func (r *compensationRepository) CreateOvertimeRule(ctx context.Context, rule compensation.OvertimeRule) (compensation.OvertimeRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_rules (
			id, employee_id, category, multiplier, threshold_hours, valid_from, valid_to, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rule.ID, rule.EmployeeID, rule.Category,
		rule.Multiplier, rule.ThresholdHours,
		rule.Window.ValidFrom, rule.Window.ValidTo,
		rule.CreatedAt, rule.UpdatedAt,
	).Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return compensation.OvertimeRule{}, fmt.Errorf("failed to insert overtime rule: %w", err)
	}
	return rule, nil
}

// ListOvertimeRulesOverlapping implements compensation.CompensationRepository.
func (r *compensationRepository) ListOvertimeRulesOverlapping(ctx context.Context, employeeID string, period dates.Period) ([]compensation.OvertimeRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, category, multiplier, threshold_hours, valid_from, valid_to, created_at, updated_at
		FROM overtime_rules
		WHERE employee_id = $1
		  AND valid_from <= $3
		  AND (valid_to IS NULL OR valid_to >= $2)
		ORDER BY valid_from
	`

	rows, err := q.Query(ctx, query, employeeID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime rules: %w", err)
	}
	defer rows.Close()

	var rules []compensation.OvertimeRule
	for rows.Next() {
		var rule compensation.OvertimeRule
		if err := rows.Scan(
			&rule.ID, &rule.EmployeeID, &rule.Category,
			&rule.Multiplier, &rule.ThresholdHours,
			&rule.Window.ValidFrom, &rule.Window.ValidTo,
			&rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan overtime rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// CreateSickLeaveRule implements compensation.CompensationRepository.
func (r *compensationRepository) CreateSickLeaveRule(ctx context.Context, rule compensation.SickLeaveRule) (compensation.SickLeaveRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO sick_leave_rules (
			id, employee_id, percentage, max_days, valid_from, valid_to, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rule.ID, rule.EmployeeID, rule.Percentage, rule.MaxDays,
		rule.Window.ValidFrom, rule.Window.ValidTo,
		rule.CreatedAt, rule.UpdatedAt,
	).Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return compensation.SickLeaveRule{}, fmt.Errorf("failed to insert sick leave rule: %w", err)
	}
	return rule, nil
}

// ListSickLeaveRulesOverlapping implements compensation.CompensationRepository.
func (r *compensationRepository) ListSickLeaveRulesOverlapping(ctx context.Context, employeeID string, period dates.Period) ([]compensation.SickLeaveRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, percentage, max_days, valid_from, valid_to, created_at, updated_at
		FROM sick_leave_rules
		WHERE employee_id = $1
		  AND valid_from <= $3
		  AND (valid_to IS NULL OR valid_to >= $2)
		ORDER BY valid_from
	`

	rows, err := q.Query(ctx, query, employeeID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list sick leave rules: %w", err)
	}
	defer rows.Close()

	var rules []compensation.SickLeaveRule
	for rows.Next() {
		var rule compensation.SickLeaveRule
		if err := rows.Scan(
			&rule.ID, &rule.EmployeeID, &rule.Percentage, &rule.MaxDays,
			&rule.Window.ValidFrom, &rule.Window.ValidTo,
			&rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sick leave rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
