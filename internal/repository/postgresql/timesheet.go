package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/paycove/payroll-backend-go/internal/domain/timesheet"
	"github.com/paycove/payroll-backend-go/internal/pkg/database"
)

type timesheetRepository struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepository{db: db}
}

const timesheetColumns = `
	id, employee_id, start_date, end_date, hours, overtime_hours, overtime_category,
	status, rejection_reason, submitted_at, approved_at, approved_by, created_at, updated_at
`

func scanTimesheet(row pgx.Row) (timesheet.Timesheet, error) {
	var ts timesheet.Timesheet
	err := row.Scan(
		&ts.ID, &ts.EmployeeID, &ts.StartDate, &ts.EndDate,
		&ts.Hours, &ts.OvertimeHours, &ts.OvertimeCategory,
		&ts.Status, &ts.RejectionReason, &ts.SubmittedAt,
		&ts.ApprovedAt, &ts.ApprovedBy, &ts.CreatedAt, &ts.UpdatedAt,
	)
	return ts, err
}

// Create implements timesheet.TimesheetRepository.
func (r *timesheetRepository) Create(ctx context.Context, ts timesheet.Timesheet) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheets (
			id, employee_id, start_date, end_date, hours, overtime_hours, overtime_category,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		ts.ID, ts.EmployeeID, ts.StartDate, ts.EndDate,
		ts.Hours, ts.OvertimeHours, ts.OvertimeCategory,
		ts.Status, ts.CreatedAt, ts.UpdatedAt,
	).Scan(&ts.CreatedAt, &ts.UpdatedAt)
	if err != nil {
		return timesheet.Timesheet{}, fmt.Errorf("failed to insert timesheet: %w", err)
	}
	return ts, nil
}

// GetByID implements timesheet.TimesheetRepository.
func (r *timesheetRepository) GetByID(ctx context.Context, id string) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE id = $1`
	return scanTimesheet(q.QueryRow(ctx, query, id))
}

// Update implements timesheet.TimesheetRepository.
func (r *timesheetRepository) Update(ctx context.Context, ts timesheet.Timesheet) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheets
		SET status = $2, rejection_reason = $3, submitted_at = $4,
		    approved_at = $5, approved_by = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		ts.ID, ts.Status, ts.RejectionReason, ts.SubmittedAt,
		ts.ApprovedAt, ts.ApprovedBy, ts.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update timesheet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListByEmployee implements timesheet.TimesheetRepository.
func (r *timesheetRepository) ListByEmployee(ctx context.Context, employeeID string) ([]timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE employee_id = $1 ORDER BY start_date DESC`
	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	defer rows.Close()

	return collectTimesheets(rows)
}

// ListApprovedOverlapping implements timesheet.TimesheetRepository.
func (r *timesheetRepository) ListApprovedOverlapping(ctx context.Context, employeeID string, period dates.Period) ([]timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timesheetColumns + `
		FROM timesheets
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND start_date <= $3
		  AND end_date >= $2
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved timesheets: %w", err)
	}
	defer rows.Close()

	return collectTimesheets(rows)
}

func collectTimesheets(rows pgx.Rows) ([]timesheet.Timesheet, error) {
	var sheets []timesheet.Timesheet
	for rows.Next() {
		ts, err := scanTimesheet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet: %w", err)
		}
		sheets = append(sheets, ts)
	}
	return sheets, rows.Err()
}
