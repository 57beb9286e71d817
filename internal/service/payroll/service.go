package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/paycove/payroll-backend-go/internal/domain/absence"
	"github.com/paycove/payroll-backend-go/internal/domain/compensation"
	"github.com/paycove/payroll-backend-go/internal/domain/contract"
	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/paycove/payroll-backend-go/internal/domain/employee"
	"github.com/paycove/payroll-backend-go/internal/domain/payroll"
	"github.com/paycove/payroll-backend-go/internal/domain/timesheet"
	"github.com/paycove/payroll-backend-go/internal/pkg/validator"
)

// Consumer-side ports for the calculation collaborators, so the lifecycle
// can be exercised without a database.

type ProfileResolver interface {
	Resolve(ctx context.Context, employeeID string, period dates.Period) (compensation.Profile, []payroll.Advisory, error)
}

type HoursAggregator interface {
	Aggregate(ctx context.Context, employeeID string, period dates.Period) (timesheet.WorkedHours, error)
}

type AbsenceAdjuster interface {
	Assess(ctx context.Context, employeeID string, period dates.Period) (absence.Impact, error)
}

// EventEmitter publishes committed transitions. Implementations must not
// return delivery failures into the call path.
type EventEmitter interface {
	Emit(ctx context.Context, event payroll.Event)
}

// Transactor runs fn inside one database transaction; the context passed to
// fn carries it to every repository call.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PayrollServiceImpl drives the payroll lifecycle:
// draft -> calculated -> approved -> processed -> paid, with cancellation up
// to approval. Every transition takes the caller's expected version and fails
// with ErrConcurrencyConflict on a stale read.
type PayrollServiceImpl struct {
	tx Transactor
	payroll.PayrollRepository
	employee.EmployeeRepository
	contract.ContractRepository
	balanceRepo absence.AbsenceBalanceRepository

	resolver   ProfileResolver
	aggregator HoursAggregator
	adjuster   AbsenceAdjuster
	emitter    EventEmitter
	logger     *slog.Logger
}

func NewPayrollService(
	tx Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	contractRepo contract.ContractRepository,
	balanceRepo absence.AbsenceBalanceRepository,
	resolver ProfileResolver,
	aggregator HoursAggregator,
	adjuster AbsenceAdjuster,
	emitter EventEmitter,
	logger *slog.Logger,
) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		tx:                 tx,
		PayrollRepository:  payrollRepo,
		EmployeeRepository: employeeRepo,
		ContractRepository: contractRepo,
		balanceRepo:        balanceRepo,
		resolver:           resolver,
		aggregator:         aggregator,
		adjuster:           adjuster,
		emitter:            emitter,
		logger:             logger,
	}
}

// Create opens a draft payroll for the employee and period. The employee must
// be active with a contract covering the period start, and at most one
// payroll may exist per employee and period.
func (s *PayrollServiceImpl) Create(ctx context.Context, req payroll.CreatePayrollRequest, actorID string) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	start, _ := validator.IsValidDate(req.PeriodStart)
	end, _ := validator.IsValidDate(req.PeriodEnd)
	period, err := dates.NewPeriod(start, end)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollResponse{}, employee.ErrEmployeeNotFound
		}
		return payroll.PayrollResponse{}, fmt.Errorf("get employee: %w", err)
	}
	if !emp.IsActive() {
		return payroll.PayrollResponse{}, employee.ErrEmployeeNotActive
	}

	if _, err := s.ContractRepository.GetActiveForEmployee(ctx, req.EmployeeID, period.Start); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollResponse{}, fmt.Errorf("%w: employee %s at %s",
				contract.ErrNoActiveContract, req.EmployeeID, period.Start.Format("2006-01-02"))
		}
		return payroll.PayrollResponse{}, fmt.Errorf("get active contract: %w", err)
	}

	now := time.Now().UTC()
	p := payroll.Payroll{
		ID:         uuid.NewString(),
		EmployeeID: req.EmployeeID,
		Period:     period,
		Status:     payroll.StatusDraft,
		Version:    0,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.PayrollRepository.Create(ctx, p)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("create payroll: %w", err)
	}

	s.emitter.Emit(ctx, payroll.NewEvent(payroll.EventCreated, created, actorID))
	return payroll.ToResponse(created), nil
}

// Calculate resolves compensation, aggregates approved hours, assesses
// absences and writes the breakdown, all in one transaction. Recalculating
// first returns the previous run's balance consumption, so repeating the
// operation never double-draws a balance.
func (s *PayrollServiceImpl) Calculate(ctx context.Context, id string, req payroll.CalculatePayrollRequest, actorID string) (payroll.CalculateResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CalculateResponse{}, err
	}

	var (
		updated    payroll.Payroll
		advisories []payroll.Advisory
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.getPayroll(ctx, id)
		if err != nil {
			return err
		}
		if !p.CanTransitionTo(payroll.StatusCalculated) {
			return fmt.Errorf("%w: cannot calculate from %s", payroll.ErrInvalidStateTransition, p.Status)
		}
		if p.Version != req.Version {
			return fmt.Errorf("%w: expected version %d, have %d", payroll.ErrConcurrencyConflict, req.Version, p.Version)
		}

		if err := s.returnConsumptions(ctx, p.EmployeeID, p.Consumptions); err != nil {
			return err
		}

		profile, profileAdvisories, err := s.resolver.Resolve(ctx, p.EmployeeID, p.Period)
		if err != nil {
			return err
		}
		worked, err := s.aggregator.Aggregate(ctx, p.EmployeeID, p.Period)
		if err != nil {
			return err
		}
		impact, err := s.adjuster.Assess(ctx, p.EmployeeID, p.Period)
		if err != nil {
			return err
		}

		workingDays := 0
		if req.WorkingDays != nil {
			workingDays = *req.WorkingDays
		}
		breakdown, calcAdvisories, err := Calculate(CalculationInput{
			Period:      p.Period,
			Profile:     profile,
			Worked:      worked,
			Impact:      impact,
			WorkingDays: workingDays,
		})
		if err != nil {
			return err
		}

		if err := s.consumeBalances(ctx, p.EmployeeID, impact.Consumptions); err != nil {
			return err
		}

		if err := p.SetCalculated(breakdown, impact.Consumptions); err != nil {
			return err
		}
		updated, err = s.PayrollRepository.UpdateVersioned(ctx, p, req.Version)
		if err != nil {
			return err
		}

		advisories = append(profileAdvisories, calcAdvisories...)
		return nil
	})
	if err != nil {
		return payroll.CalculateResponse{}, err
	}

	s.logger.Info("payroll calculated",
		slog.String("payroll_id", updated.ID),
		slog.String("employee_id", updated.EmployeeID),
		slog.String("period", updated.Period.String()),
		slog.Int("advisories", len(advisories)),
	)
	s.emitter.Emit(ctx, payroll.NewEvent(payroll.EventCalculated, updated, actorID))
	return payroll.CalculateResponse{
		Payroll:    payroll.ToResponse(updated),
		Advisories: advisories,
	}, nil
}

func (s *PayrollServiceImpl) Approve(ctx context.Context, id string, req payroll.TransitionRequest, actorID string) (payroll.PayrollResponse, error) {
	return s.transition(ctx, id, req.Version, payroll.EventApproved, actorID, func(p *payroll.Payroll) error {
		return p.Approve(actorID)
	})
}

func (s *PayrollServiceImpl) Process(ctx context.Context, id string, req payroll.TransitionRequest, actorID string) (payroll.PayrollResponse, error) {
	return s.transition(ctx, id, req.Version, payroll.EventProcessed, actorID, func(p *payroll.Payroll) error {
		return p.Process()
	})
}

func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id string, req payroll.MarkPaidRequest, actorID string) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}
	return s.transition(ctx, id, req.Version, payroll.EventPaid, actorID, func(p *payroll.Payroll) error {
		return p.MarkPaid(req.PaymentReference)
	})
}

// Cancel voids a payroll before processing and returns any balance days the
// calculation had consumed.
func (s *PayrollServiceImpl) Cancel(ctx context.Context, id string, req payroll.TransitionRequest, actorID string) (payroll.PayrollResponse, error) {
	var updated payroll.Payroll
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.getPayroll(ctx, id)
		if err != nil {
			return err
		}
		if p.Version != req.Version {
			return fmt.Errorf("%w: expected version %d, have %d", payroll.ErrConcurrencyConflict, req.Version, p.Version)
		}
		if err := p.Cancel(actorID); err != nil {
			return err
		}
		if err := s.returnConsumptions(ctx, p.EmployeeID, p.Consumptions); err != nil {
			return err
		}
		p.Consumptions = nil

		updated, err = s.PayrollRepository.UpdateVersioned(ctx, p, req.Version)
		return err
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	s.emitter.Emit(ctx, payroll.NewEvent(payroll.EventCancelled, updated, actorID))
	return payroll.ToResponse(updated), nil
}

func (s *PayrollServiceImpl) GetByID(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	p, err := s.getPayroll(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return payroll.ToResponse(p), nil
}

func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.ListFilter) (payroll.ListPayrollResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	payrolls, total, err := s.PayrollRepository.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("list payrolls: %w", err)
	}
	return payroll.ListPayrollResponse{
		Data:       payroll.ToResponses(payrolls),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) transition(
	ctx context.Context,
	id string,
	expectedVersion int64,
	kind payroll.EventKind,
	actorID string,
	fn func(*payroll.Payroll) error,
) (payroll.PayrollResponse, error) {
	var updated payroll.Payroll
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.getPayroll(ctx, id)
		if err != nil {
			return err
		}
		if p.Version != expectedVersion {
			return fmt.Errorf("%w: expected version %d, have %d", payroll.ErrConcurrencyConflict, expectedVersion, p.Version)
		}
		if err := fn(&p); err != nil {
			return err
		}
		updated, err = s.PayrollRepository.UpdateVersioned(ctx, p, expectedVersion)
		return err
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	s.emitter.Emit(ctx, payroll.NewEvent(kind, updated, actorID))
	return payroll.ToResponse(updated), nil
}

func (s *PayrollServiceImpl) getPayroll(ctx context.Context, id string) (payroll.Payroll, error) {
	p, err := s.PayrollRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("get payroll: %w", err)
	}
	return p, nil
}

func (s *PayrollServiceImpl) returnConsumptions(ctx context.Context, employeeID string, consumptions []absence.Consumption) error {
	for _, c := range consumptions {
		bal, err := s.balanceRepo.Get(ctx, employeeID, c.Type, c.Year)
		if err != nil {
			return fmt.Errorf("get %s balance for return: %w", c.Type, err)
		}
		if err := bal.Return(c.Days); err != nil {
			return fmt.Errorf("return %s days to %s %d: %w", c.Days, c.Type, c.Year, err)
		}
		if err := s.balanceRepo.Update(ctx, bal); err != nil {
			return fmt.Errorf("update %s balance: %w", c.Type, err)
		}
	}
	return nil
}

func (s *PayrollServiceImpl) consumeBalances(ctx context.Context, employeeID string, consumptions []absence.Consumption) error {
	for _, c := range consumptions {
		bal, err := s.balanceRepo.Get(ctx, employeeID, c.Type, c.Year)
		if err != nil {
			return fmt.Errorf("get %s balance for consumption: %w", c.Type, err)
		}
		if err := bal.Consume(c.Days); err != nil {
			return fmt.Errorf("consume %s days from %s %d: %w", c.Days, c.Type, c.Year, err)
		}
		if err := s.balanceRepo.Update(ctx, bal); err != nil {
			return fmt.Errorf("update %s balance: %w", c.Type, err)
		}
	}
	return nil
}
