package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/paycove/payroll-backend-go/internal/domain/absence"
	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/paycove/payroll-backend-go/internal/pkg/database"
)

type absenceRepository struct {
	db *database.DB
}

func NewAbsenceRepository(db *database.DB) absence.AbsenceRepository {
	return &absenceRepository{db: db}
}

const absenceColumns = `
	id, employee_id, type, status, start_date, end_date, reason, created_at, updated_at
`

func scanAbsence(row pgx.Row) (absence.AbsenceRecord, error) {
	var rec absence.AbsenceRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Type, &rec.Status,
		&rec.StartDate, &rec.EndDate, &rec.Reason,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create implements absence.AbsenceRepository.
func (r *absenceRepository) Create(ctx context.Context, rec absence.AbsenceRecord) (absence.AbsenceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO absences (id, employee_id, type, status, start_date, end_date, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID, rec.EmployeeID, rec.Type, rec.Status,
		rec.StartDate, rec.EndDate, rec.Reason, rec.CreatedAt, rec.UpdatedAt,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return absence.AbsenceRecord{}, fmt.Errorf("failed to insert absence: %w", err)
	}
	return rec, nil
}

// GetByID implements absence.AbsenceRepository.
func (r *absenceRepository) GetByID(ctx context.Context, id string) (absence.AbsenceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + absenceColumns + ` FROM absences WHERE id = $1`
	return scanAbsence(q.QueryRow(ctx, query, id))
}

// Update implements absence.AbsenceRepository.
func (r *absenceRepository) Update(ctx context.Context, rec absence.AbsenceRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absences
		SET status = $2, reason = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, rec.ID, rec.Status, rec.Reason, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update absence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListByEmployee implements absence.AbsenceRepository.
func (r *absenceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]absence.AbsenceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + absenceColumns + ` FROM absences WHERE employee_id = $1 ORDER BY start_date DESC`
	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list absences: %w", err)
	}
	defer rows.Close()

	return collectAbsences(rows)
}

// ListApprovedOverlapping implements absence.AbsenceRepository.
func (r *absenceRepository) ListApprovedOverlapping(ctx context.Context, employeeID string, period dates.Period) ([]absence.AbsenceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + absenceColumns + `
		FROM absences
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND start_date <= $3
		  AND end_date >= $2
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved absences: %w", err)
	}
	defer rows.Close()

	return collectAbsences(rows)
}

func collectAbsences(rows pgx.Rows) ([]absence.AbsenceRecord, error) {
	var records []absence.AbsenceRecord
	for rows.Next() {
		rec, err := scanAbsence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type absenceBalanceRepository struct {
	db *database.DB
}

func NewAbsenceBalanceRepository(db *database.DB) absence.AbsenceBalanceRepository {
	return &absenceBalanceRepository{db: db}
}

// Create implements absence.AbsenceBalanceRepository.
func (r *absenceBalanceRepository) Create(ctx context.Context, bal absence.AbsenceBalance) (absence.AbsenceBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO absence_balances (id, employee_id, type, year, total_days, used_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		bal.ID, bal.EmployeeID, bal.Type, bal.Year,
		bal.TotalDays, bal.UsedDays, bal.CreatedAt, bal.UpdatedAt,
	).Scan(&bal.CreatedAt, &bal.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return absence.AbsenceBalance{}, absence.ErrBalanceExists
		}
		return absence.AbsenceBalance{}, fmt.Errorf("failed to insert absence balance: %w", err)
	}
	return bal, nil
}

// Get implements absence.AbsenceBalanceRepository.
func (r *absenceBalanceRepository) Get(ctx context.Context, employeeID string, absenceType absence.AbsenceType, year int) (absence.AbsenceBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, type, year, total_days, used_days, created_at, updated_at
		FROM absence_balances
		WHERE employee_id = $1 AND type = $2 AND year = $3
	`

	var bal absence.AbsenceBalance
	err := q.QueryRow(ctx, query, employeeID, absenceType, year).Scan(
		&bal.ID, &bal.EmployeeID, &bal.Type, &bal.Year,
		&bal.TotalDays, &bal.UsedDays, &bal.CreatedAt, &bal.UpdatedAt,
	)
	if err != nil {
		return absence.AbsenceBalance{}, err
	}
	return bal, nil
}

// ListByEmployee implements absence.AbsenceBalanceRepository.
func (r *absenceBalanceRepository) ListByEmployee(ctx context.Context, employeeID string, year int) ([]absence.AbsenceBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, type, year, total_days, used_days, created_at, updated_at
		FROM absence_balances
		WHERE employee_id = $1 AND year = $2
		ORDER BY type
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list absence balances: %w", err)
	}
	defer rows.Close()

	var balances []absence.AbsenceBalance
	for rows.Next() {
		var bal absence.AbsenceBalance
		if err := rows.Scan(
			&bal.ID, &bal.EmployeeID, &bal.Type, &bal.Year,
			&bal.TotalDays, &bal.UsedDays, &bal.CreatedAt, &bal.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan absence balance: %w", err)
		}
		balances = append(balances, bal)
	}
	return balances, rows.Err()
}

// Update implements absence.AbsenceBalanceRepository.
func (r *absenceBalanceRepository) Update(ctx context.Context, bal absence.AbsenceBalance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absence_balances
		SET total_days = $2, used_days = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, bal.ID, bal.TotalDays, bal.UsedDays, bal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update absence balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
