package timesheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/paycove/payroll-backend-go/internal/domain/employee"
	"github.com/paycove/payroll-backend-go/internal/domain/timesheet"
	"github.com/paycove/payroll-backend-go/internal/pkg/validator"
)

// TimesheetServiceImpl handles the submission workflow: draft, submit,
// approve or reject. Every operation is a single write, so no transaction
// handle is needed here.
type TimesheetServiceImpl struct {
	timesheet.TimesheetRepository
	employee.EmployeeRepository
}

func NewTimesheetService(
	timesheetRepo timesheet.TimesheetRepository,
	employeeRepo employee.EmployeeRepository,
) *TimesheetServiceImpl {
	return &TimesheetServiceImpl{
		TimesheetRepository: timesheetRepo,
		EmployeeRepository:  employeeRepo,
	}
}

func (s *TimesheetServiceImpl) Create(ctx context.Context, req timesheet.CreateTimesheetRequest) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.TimesheetResponse{}, employee.ErrEmployeeNotFound
		}
		return timesheet.TimesheetResponse{}, fmt.Errorf("get employee: %w", err)
	}
	if !emp.IsActive() {
		return timesheet.TimesheetResponse{}, employee.ErrEmployeeNotActive
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	var category *timesheet.OvertimeCategory
	if req.OvertimeCategory != nil {
		c := timesheet.OvertimeCategory(*req.OvertimeCategory)
		category = &c
	}

	now := time.Now().UTC()
	ts := timesheet.Timesheet{
		ID:               uuid.NewString(),
		EmployeeID:       req.EmployeeID,
		StartDate:        start,
		EndDate:          end,
		Hours:            req.Hours,
		OvertimeHours:    req.OvertimeHours,
		OvertimeCategory: category,
		Status:           timesheet.StatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := ts.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	created, err := s.TimesheetRepository.Create(ctx, ts)
	if err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("create timesheet: %w", err)
	}
	return timesheet.ToResponse(created), nil
}

func (s *TimesheetServiceImpl) Submit(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
	return s.transition(ctx, id, func(ts *timesheet.Timesheet) error {
		return ts.Submit()
	})
}

func (s *TimesheetServiceImpl) Approve(ctx context.Context, id string, approverID string) (timesheet.TimesheetResponse, error) {
	return s.transition(ctx, id, func(ts *timesheet.Timesheet) error {
		return ts.Approve(approverID)
	})
}

func (s *TimesheetServiceImpl) Reject(ctx context.Context, id string, req timesheet.RejectTimesheetRequest) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	return s.transition(ctx, id, func(ts *timesheet.Timesheet) error {
		return ts.Reject(req.Reason)
	})
}

func (s *TimesheetServiceImpl) GetByID(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
	ts, err := s.TimesheetRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.TimesheetResponse{}, timesheet.ErrTimesheetNotFound
		}
		return timesheet.TimesheetResponse{}, fmt.Errorf("get timesheet: %w", err)
	}
	return timesheet.ToResponse(ts), nil
}

func (s *TimesheetServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]timesheet.TimesheetResponse, error) {
	sheets, err := s.TimesheetRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list timesheets: %w", err)
	}
	return timesheet.ToResponses(sheets), nil
}

func (s *TimesheetServiceImpl) transition(ctx context.Context, id string, fn func(*timesheet.Timesheet) error) (timesheet.TimesheetResponse, error) {
	ts, err := s.TimesheetRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.TimesheetResponse{}, timesheet.ErrTimesheetNotFound
		}
		return timesheet.TimesheetResponse{}, fmt.Errorf("get timesheet: %w", err)
	}
	if err := fn(&ts); err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if err := s.TimesheetRepository.Update(ctx, ts); err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("update timesheet: %w", err)
	}
	return timesheet.ToResponse(ts), nil
}
