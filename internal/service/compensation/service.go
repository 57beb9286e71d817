package compensation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/paycove/payroll-backend-go/internal/domain/compensation"
	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/paycove/payroll-backend-go/internal/domain/employee"
	"github.com/paycove/payroll-backend-go/internal/domain/money"
	"github.com/paycove/payroll-backend-go/internal/domain/timesheet"
	"github.com/paycove/payroll-backend-go/internal/pkg/validator"
)

// CompensationServiceImpl administers rates, bonuses, deductions and rules.
// Each create is a single insert, so no transaction handle is needed.
type CompensationServiceImpl struct {
	compensation.CompensationRepository
	employee.EmployeeRepository
}

func NewCompensationService(
	compensationRepo compensation.CompensationRepository,
	employeeRepo employee.EmployeeRepository,
) *CompensationServiceImpl {
	return &CompensationServiceImpl{
		CompensationRepository: compensationRepo,
		EmployeeRepository:     employeeRepo,
	}
}

func (s *CompensationServiceImpl) CreateRate(ctx context.Context, req compensation.CreateRateRequest) (compensation.RateResponse, error) {
	if err := req.Validate(); err != nil {
		return compensation.RateResponse{}, err
	}
	if err := s.checkEmployee(ctx, req.EmployeeID); err != nil {
		return compensation.RateResponse{}, err
	}

	amount, err := money.New(req.Amount, req.Currency)
	if err != nil {
		return compensation.RateResponse{}, err
	}
	window, err := parseWindow(req.ValidFrom, req.ValidTo)
	if err != nil {
		return compensation.RateResponse{}, err
	}

	now := time.Now().UTC()
	rate := compensation.Rate{
		ID:          uuid.NewString(),
		EmployeeID:  req.EmployeeID,
		Type:        compensation.RateType(req.Type),
		Amount:      amount,
		Window:      window,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.CompensationRepository.CreateRate(ctx, rate)
	if err != nil {
		return compensation.RateResponse{}, fmt.Errorf("create rate: %w", err)
	}
	return compensation.ToRateResponse(created), nil
}

func (s *CompensationServiceImpl) ListRates(ctx context.Context, employeeID string) ([]compensation.RateResponse, error) {
	rates, err := s.CompensationRepository.ListRatesByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	return compensation.ToRateResponses(rates), nil
}

func (s *CompensationServiceImpl) CreateBonus(ctx context.Context, req compensation.CreateBonusRequest) (compensation.Bonus, error) {
	if err := req.Validate(); err != nil {
		return compensation.Bonus{}, err
	}
	if err := s.checkEmployee(ctx, req.EmployeeID); err != nil {
		return compensation.Bonus{}, err
	}

	amount, err := money.New(req.Amount, req.Currency)
	if err != nil {
		return compensation.Bonus{}, err
	}
	paymentDate, _ := validator.IsValidDate(req.PaymentDate)

	bonus := compensation.Bonus{
		ID:          uuid.NewString(),
		EmployeeID:  req.EmployeeID,
		Type:        compensation.BonusType(req.Type),
		Amount:      amount,
		PaymentDate: paymentDate,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.CompensationRepository.CreateBonus(ctx, bonus)
	if err != nil {
		return compensation.Bonus{}, fmt.Errorf("create bonus: %w", err)
	}
	return created, nil
}

func (s *CompensationServiceImpl) CreateDeduction(ctx context.Context, req compensation.CreateDeductionRequest) (compensation.Deduction, error) {
	if err := req.Validate(); err != nil {
		return compensation.Deduction{}, err
	}
	if err := s.checkEmployee(ctx, req.EmployeeID); err != nil {
		return compensation.Deduction{}, err
	}

	amount, err := money.New(req.Amount, req.Currency)
	if err != nil {
		return compensation.Deduction{}, err
	}
	window, err := parseWindow(req.ValidFrom, req.ValidTo)
	if err != nil {
		return compensation.Deduction{}, err
	}

	now := time.Now().UTC()
	ded := compensation.Deduction{
		ID:          uuid.NewString(),
		EmployeeID:  req.EmployeeID,
		Type:        compensation.DeductionType(req.Type),
		Amount:      amount,
		Window:      window,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.CompensationRepository.CreateDeduction(ctx, ded)
	if err != nil {
		return compensation.Deduction{}, fmt.Errorf("create deduction: %w", err)
	}
	return created, nil
}

func (s *CompensationServiceImpl) CreateOvertimeRule(ctx context.Context, req compensation.CreateOvertimeRuleRequest) (compensation.OvertimeRule, error) {
	if err := req.Validate(); err != nil {
		return compensation.OvertimeRule{}, err
	}
	if err := s.checkEmployee(ctx, req.EmployeeID); err != nil {
		return compensation.OvertimeRule{}, err
	}

	window, err := parseWindow(req.ValidFrom, req.ValidTo)
	if err != nil {
		return compensation.OvertimeRule{}, err
	}

	now := time.Now().UTC()
	rule := compensation.OvertimeRule{
		ID:             uuid.NewString(),
		EmployeeID:     req.EmployeeID,
		Category:       timesheet.OvertimeCategory(req.Category),
		Multiplier:     req.Multiplier,
		ThresholdHours: req.ThresholdHours,
		Window:         window,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := rule.Validate(); err != nil {
		return compensation.OvertimeRule{}, err
	}

	created, err := s.CompensationRepository.CreateOvertimeRule(ctx, rule)
	if err != nil {
		return compensation.OvertimeRule{}, fmt.Errorf("create overtime rule: %w", err)
	}
	return created, nil
}

func (s *CompensationServiceImpl) CreateSickLeaveRule(ctx context.Context, req compensation.CreateSickLeaveRuleRequest) (compensation.SickLeaveRule, error) {
	if err := req.Validate(); err != nil {
		return compensation.SickLeaveRule{}, err
	}
	if err := s.checkEmployee(ctx, req.EmployeeID); err != nil {
		return compensation.SickLeaveRule{}, err
	}

	window, err := parseWindow(req.ValidFrom, req.ValidTo)
	if err != nil {
		return compensation.SickLeaveRule{}, err
	}

	now := time.Now().UTC()
	rule := compensation.SickLeaveRule{
		ID:         uuid.NewString(),
		EmployeeID: req.EmployeeID,
		Percentage: req.Percentage,
		MaxDays:    req.MaxDays,
		Window:     window,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := rule.Validate(); err != nil {
		return compensation.SickLeaveRule{}, err
	}

	created, err := s.CompensationRepository.CreateSickLeaveRule(ctx, rule)
	if err != nil {
		return compensation.SickLeaveRule{}, fmt.Errorf("create sick leave rule: %w", err)
	}
	return created, nil
}

func (s *CompensationServiceImpl) checkEmployee(ctx context.Context, employeeID string) error {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("get employee: %w", err)
	}
	return nil
}

func parseWindow(validFrom string, validTo *string) (dates.Window, error) {
	from, _ := validator.IsValidDate(validFrom)
	var to *time.Time
	if validTo != nil {
		t, _ := validator.IsValidDate(*validTo)
		to = &t
	}
	return dates.NewWindow(from, to)
}
