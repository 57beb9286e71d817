package absence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/paycove/payroll-backend-go/internal/domain/absence"
	"github.com/paycove/payroll-backend-go/internal/domain/employee"
	"github.com/paycove/payroll-backend-go/internal/pkg/validator"
)

// AbsenceServiceImpl handles the request workflow: pending, approve, reject,
// cancel, plus yearly balance administration. Balance days are only consumed
// during payroll calculation, so every operation here is a single write.
type AbsenceServiceImpl struct {
	absence.AbsenceRepository
	balanceRepo absence.AbsenceBalanceRepository
	employee.EmployeeRepository
}

func NewAbsenceService(
	absenceRepo absence.AbsenceRepository,
	balanceRepo absence.AbsenceBalanceRepository,
	employeeRepo employee.EmployeeRepository,
) *AbsenceServiceImpl {
	return &AbsenceServiceImpl{
		AbsenceRepository:  absenceRepo,
		balanceRepo:        balanceRepo,
		EmployeeRepository: employeeRepo,
	}
}

func (s *AbsenceServiceImpl) Create(ctx context.Context, req absence.CreateAbsenceRequest) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.AbsenceResponse{}, employee.ErrEmployeeNotFound
		}
		return absence.AbsenceResponse{}, fmt.Errorf("get employee: %w", err)
	}
	if !emp.IsActive() {
		return absence.AbsenceResponse{}, employee.ErrEmployeeNotActive
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	now := time.Now().UTC()
	rec := absence.AbsenceRecord{
		ID:         uuid.NewString(),
		EmployeeID: req.EmployeeID,
		Type:       absence.AbsenceType(req.Type),
		Status:     absence.StatusPending,
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := rec.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}

	created, err := s.AbsenceRepository.Create(ctx, rec)
	if err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("create absence: %w", err)
	}
	return absence.ToResponse(created), nil
}

// Approve validates the matching balance can still cover the requested days
// before approving. Actual consumption happens at payroll calculation.
func (s *AbsenceServiceImpl) Approve(ctx context.Context, id string) (absence.AbsenceResponse, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	if rec.Type.IsPaid() {
		year := rec.Range().Start.Year()
		bal, err := s.balanceRepo.Get(ctx, rec.EmployeeID, rec.Type, year)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return absence.AbsenceResponse{}, fmt.Errorf("%w: no %s balance for %d",
					absence.ErrInsufficientBalance, rec.Type, year)
			}
			return absence.AbsenceResponse{}, fmt.Errorf("get balance: %w", err)
		}
		if !bal.CanTake(rec.Days()) {
			return absence.AbsenceResponse{}, fmt.Errorf("%w: %s days requested, %s remaining",
				absence.ErrInsufficientBalance, rec.Days().String(), bal.RemainingDays().String())
		}
	}

	if err := rec.Approve(); err != nil {
		return absence.AbsenceResponse{}, err
	}
	if err := s.AbsenceRepository.Update(ctx, rec); err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("update absence: %w", err)
	}
	return absence.ToResponse(rec), nil
}

func (s *AbsenceServiceImpl) Reject(ctx context.Context, id string) (absence.AbsenceResponse, error) {
	return s.transition(ctx, id, func(rec *absence.AbsenceRecord) error {
		return rec.Reject()
	})
}

func (s *AbsenceServiceImpl) Cancel(ctx context.Context, id string) (absence.AbsenceResponse, error) {
	return s.transition(ctx, id, func(rec *absence.AbsenceRecord) error {
		return rec.Cancel()
	})
}

func (s *AbsenceServiceImpl) GetByID(ctx context.Context, id string) (absence.AbsenceResponse, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	return absence.ToResponse(rec), nil
}

func (s *AbsenceServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]absence.AbsenceResponse, error) {
	records, err := s.AbsenceRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list absences: %w", err)
	}
	return absence.ToResponses(records), nil
}

func (s *AbsenceServiceImpl) CreateBalance(ctx context.Context, req absence.CreateBalanceRequest) (absence.BalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.BalanceResponse{}, err
	}

	now := time.Now().UTC()
	bal := absence.AbsenceBalance{
		ID:         uuid.NewString(),
		EmployeeID: req.EmployeeID,
		Type:       absence.AbsenceType(req.Type),
		Year:       req.Year,
		TotalDays:  req.TotalDays,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created, err := s.balanceRepo.Create(ctx, bal)
	if err != nil {
		return absence.BalanceResponse{}, fmt.Errorf("create balance: %w", err)
	}
	return absence.ToBalanceResponse(created), nil
}

func (s *AbsenceServiceImpl) ListBalances(ctx context.Context, employeeID string, year int) ([]absence.BalanceResponse, error) {
	balances, err := s.balanceRepo.ListByEmployee(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	return absence.ToBalanceResponses(balances), nil
}

func (s *AbsenceServiceImpl) getRecord(ctx context.Context, id string) (absence.AbsenceRecord, error) {
	rec, err := s.AbsenceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.AbsenceRecord{}, absence.ErrAbsenceNotFound
		}
		return absence.AbsenceRecord{}, fmt.Errorf("get absence: %w", err)
	}
	return rec, nil
}

func (s *AbsenceServiceImpl) transition(ctx context.Context, id string, fn func(*absence.AbsenceRecord) error) (absence.AbsenceResponse, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	if err := fn(&rec); err != nil {
		return absence.AbsenceResponse{}, err
	}
	if err := s.AbsenceRepository.Update(ctx, rec); err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("update absence: %w", err)
	}
	return absence.ToResponse(rec), nil
}
