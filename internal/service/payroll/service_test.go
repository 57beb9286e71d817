package payroll

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paycove/payroll-backend-go/internal/domain/absence"
	"github.com/paycove/payroll-backend-go/internal/domain/compensation"
	"github.com/paycove/payroll-backend-go/internal/domain/contract"
	"github.com/paycove/payroll-backend-go/internal/domain/dates"
	"github.com/paycove/payroll-backend-go/internal/domain/employee"
	"github.com/paycove/payroll-backend-go/internal/domain/payroll"
	"github.com/paycove/payroll-backend-go/internal/domain/timesheet"
	absencesvc "github.com/paycove/payroll-backend-go/internal/service/absence"
)

// ===== fakes =====

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePayrollRepo struct {
	items map[string]payroll.Payroll
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{items: make(map[string]payroll.Payroll)}
}

func (f *fakePayrollRepo) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	for _, existing := range f.items {
		if existing.EmployeeID == p.EmployeeID && existing.Period == p.Period {
			return payroll.Payroll{}, payroll.ErrDuplicatePayroll
		}
	}
	f.items[p.ID] = p
	return p, nil
}

func (f *fakePayrollRepo) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	p, ok := f.items[id]
	if !ok {
		return payroll.Payroll{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakePayrollRepo) GetByEmployeePeriod(ctx context.Context, employeeID string, period dates.Period) (payroll.Payroll, error) {
	for _, p := range f.items {
		if p.EmployeeID == employeeID && p.Period == period {
			return p, nil
		}
	}
	return payroll.Payroll{}, pgx.ErrNoRows
}

func (f *fakePayrollRepo) List(ctx context.Context, filter payroll.ListFilter) ([]payroll.Payroll, int64, error) {
	var out []payroll.Payroll
	for _, p := range f.items {
		if filter.EmployeeID != "" && p.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakePayrollRepo) UpdateVersioned(ctx context.Context, p payroll.Payroll, expectedVersion int64) (payroll.Payroll, error) {
	stored, ok := f.items[p.ID]
	if !ok {
		return payroll.Payroll{}, pgx.ErrNoRows
	}
	if stored.Version != expectedVersion {
		return payroll.Payroll{}, payroll.ErrConcurrencyConflict
	}
	p.Version = expectedVersion + 1
	f.items[p.ID] = p
	return p, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, pgx.ErrNoRows
	}
	return emp, nil
}

type fakeContractRepo struct {
	contracts []contract.Contract
}

func (f *fakeContractRepo) GetByID(ctx context.Context, id string) (contract.Contract, error) {
	for _, c := range f.contracts {
		if c.ID == id {
			return c, nil
		}
	}
	return contract.Contract{}, pgx.ErrNoRows
}

func (f *fakeContractRepo) GetActiveForEmployee(ctx context.Context, employeeID string, at time.Time) (contract.Contract, error) {
	for _, c := range f.contracts {
		if c.EmployeeID == employeeID && c.IsActiveAt(at) {
			return c, nil
		}
	}
	return contract.Contract{}, pgx.ErrNoRows
}

type fakeBalanceRepo struct {
	balances map[string]absence.AbsenceBalance
}

func balanceKey(employeeID string, at absence.AbsenceType, year int) string {
	return fmt.Sprintf("%s/%s/%d", employeeID, at, year)
}

func newFakeBalanceRepo(balances ...absence.AbsenceBalance) *fakeBalanceRepo {
	f := &fakeBalanceRepo{balances: make(map[string]absence.AbsenceBalance)}
	for _, b := range balances {
		f.balances[balanceKey(b.EmployeeID, b.Type, b.Year)] = b
	}
	return f
}

func (f *fakeBalanceRepo) Create(ctx context.Context, bal absence.AbsenceBalance) (absence.AbsenceBalance, error) {
	f.balances[balanceKey(bal.EmployeeID, bal.Type, bal.Year)] = bal
	return bal, nil
}

func (f *fakeBalanceRepo) Get(ctx context.Context, employeeID string, absenceType absence.AbsenceType, year int) (absence.AbsenceBalance, error) {
	bal, ok := f.balances[balanceKey(employeeID, absenceType, year)]
	if !ok {
		return absence.AbsenceBalance{}, pgx.ErrNoRows
	}
	return bal, nil
}

func (f *fakeBalanceRepo) ListByEmployee(ctx context.Context, employeeID string, year int) ([]absence.AbsenceBalance, error) {
	var out []absence.AbsenceBalance
	for _, bal := range f.balances {
		if bal.EmployeeID == employeeID && bal.Year == year {
			out = append(out, bal)
		}
	}
	return out, nil
}

func (f *fakeBalanceRepo) Update(ctx context.Context, bal absence.AbsenceBalance) error {
	key := balanceKey(bal.EmployeeID, bal.Type, bal.Year)
	if _, ok := f.balances[key]; !ok {
		return pgx.ErrNoRows
	}
	f.balances[key] = bal
	return nil
}

type stubResolver struct {
	profile    compensation.Profile
	advisories []payroll.Advisory
	err        error
}

func (s stubResolver) Resolve(ctx context.Context, employeeID string, period dates.Period) (compensation.Profile, []payroll.Advisory, error) {
	return s.profile, s.advisories, s.err
}

type stubAggregator struct {
	worked timesheet.WorkedHours
	err    error
}

func (s stubAggregator) Aggregate(ctx context.Context, employeeID string, period dates.Period) (timesheet.WorkedHours, error) {
	return s.worked, s.err
}

type stubAdjuster struct {
	impact absence.Impact
	err    error
}

func (s stubAdjuster) Assess(ctx context.Context, employeeID string, period dates.Period) (absence.Impact, error) {
	return s.impact, s.err
}

type recordingEmitter struct {
	events []payroll.Event
}

func (r *recordingEmitter) Emit(ctx context.Context, event payroll.Event) {
	r.events = append(r.events, event)
}

type fakeAbsenceRepo struct {
	records []absence.AbsenceRecord
}

func (f *fakeAbsenceRepo) Create(ctx context.Context, rec absence.AbsenceRecord) (absence.AbsenceRecord, error) {
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeAbsenceRepo) GetByID(ctx context.Context, id string) (absence.AbsenceRecord, error) {
	return absence.AbsenceRecord{}, pgx.ErrNoRows
}

func (f *fakeAbsenceRepo) Update(ctx context.Context, rec absence.AbsenceRecord) error {
	return nil
}

func (f *fakeAbsenceRepo) ListByEmployee(ctx context.Context, employeeID string) ([]absence.AbsenceRecord, error) {
	return f.records, nil
}

func (f *fakeAbsenceRepo) ListApprovedOverlapping(ctx context.Context, employeeID string, period dates.Period) ([]absence.AbsenceRecord, error) {
	var out []absence.AbsenceRecord
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.Status == absence.StatusApproved && rec.Range().Overlaps(period) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ===== harness =====

type harness struct {
	service     *PayrollServiceImpl
	payrollRepo *fakePayrollRepo
	balanceRepo *fakeBalanceRepo
	emitter     *recordingEmitter
}

type harnessOpts struct {
	resolver   ProfileResolver
	aggregator HoursAggregator
	adjuster   AbsenceAdjuster
	balances   []absence.AbsenceBalance
}

func newHarness(t *testing.T, opts harnessOpts) *harness {
	t.Helper()

	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", FirstName: "Ada", LastName: "Okafor", Status: employee.StatusActive},
		"emp-2": {ID: "emp-2", FirstName: "Finn", LastName: "Berg", Status: employee.StatusTerminated},
	}}
	contractWindow, err := dates.NewWindow(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	contracts := &fakeContractRepo{contracts: []contract.Contract{
		{ID: "ct-1", EmployeeID: "emp-1", Status: contract.StatusActive, Window: contractWindow},
	}}

	if opts.resolver == nil {
		opts.resolver = stubResolver{profile: hourlyProfile(t, "20")}
	}
	if opts.aggregator == nil {
		opts.aggregator = stubAggregator{worked: workedWith("80", timesheet.OvertimeRegular, "")}
	}
	if opts.adjuster == nil {
		opts.adjuster = stubAdjuster{impact: noImpact()}
	}

	payrollRepo := newFakePayrollRepo()
	balanceRepo := newFakeBalanceRepo(opts.balances...)
	emitter := &recordingEmitter{}

	service := NewPayrollService(
		passthroughTx{},
		payrollRepo,
		employees,
		contracts,
		balanceRepo,
		opts.resolver,
		opts.aggregator,
		opts.adjuster,
		emitter,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return &harness{service: service, payrollRepo: payrollRepo, balanceRepo: balanceRepo, emitter: emitter}
}

func createDraft(t *testing.T, h *harness) payroll.PayrollResponse {
	t.Helper()
	created, err := h.service.Create(context.Background(), payroll.CreatePayrollRequest{
		EmployeeID:  "emp-1",
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
	}, "actor-1")
	require.NoError(t, err)
	return created
}

// ===== tests =====

func TestPayrollService_Create_Success(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})

	created := createDraft(t, h)

	assert.Equal(t, string(payroll.StatusDraft), created.Status)
	assert.EqualValues(t, 0, created.Version)
	require.Len(t, h.emitter.events, 1)
	assert.Equal(t, payroll.EventCreated, h.emitter.events[0].Kind)
	assert.Equal(t, "actor-1", h.emitter.events[0].ActorID)
}

func TestPayrollService_Create_Duplicate(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})
	createDraft(t, h)

	_, err := h.service.Create(context.Background(), payroll.CreatePayrollRequest{
		EmployeeID:  "emp-1",
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
	}, "actor-1")

	assert.ErrorIs(t, err, payroll.ErrDuplicatePayroll)
}

func TestPayrollService_Create_InactiveEmployee(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})

	_, err := h.service.Create(context.Background(), payroll.CreatePayrollRequest{
		EmployeeID:  "emp-2",
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
	}, "actor-1")

	assert.ErrorIs(t, err, employee.ErrEmployeeNotActive)
}

func TestPayrollService_Create_NoActiveContract(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})

	// emp-1's contract starts 2024-01-01; a 2023 period has no coverage.
	_, err := h.service.Create(context.Background(), payroll.CreatePayrollRequest{
		EmployeeID:  "emp-1",
		PeriodStart: "2023-01-01",
		PeriodEnd:   "2023-01-31",
	}, "actor-1")

	assert.ErrorIs(t, err, contract.ErrNoActiveContract)
}

func TestPayrollService_Calculate_Success(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})
	created := createDraft(t, h)

	resp, err := h.service.Calculate(context.Background(), created.ID, payroll.CalculatePayrollRequest{Version: 0}, "actor-1")

	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusCalculated), resp.Payroll.Status)
	assert.EqualValues(t, 1, resp.Payroll.Version)
	require.NotNil(t, resp.Payroll.Breakdown)
	assert.True(t, resp.Payroll.Breakdown.NetPay.Equal(decimal.RequireFromString("1600")))
	require.Len(t, h.emitter.events, 2)
	assert.Equal(t, payroll.EventCalculated, h.emitter.events[1].Kind)
}

func TestPayrollService_Calculate_VersionConflict(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})
	created := createDraft(t, h)

	_, err := h.service.Calculate(context.Background(), created.ID, payroll.CalculatePayrollRequest{Version: 7}, "actor-1")

	assert.ErrorIs(t, err, payroll.ErrConcurrencyConflict)
}

func TestPayrollService_Calculate_AmbiguousRateAdvisorySurfaced(t *testing.T) {
	t.Parallel()
	advisory := payroll.Advisory{Code: payroll.AdvisoryAmbiguousRate, Message: "2 rates cover 2025-01-01"}
	h := newHarness(t, harnessOpts{
		resolver: stubResolver{profile: hourlyProfile(t, "20"), advisories: []payroll.Advisory{advisory}},
	})
	created := createDraft(t, h)

	resp, err := h.service.Calculate(context.Background(), created.ID, payroll.CalculatePayrollRequest{Version: 0}, "actor-1")

	require.NoError(t, err)
	require.Len(t, resp.Advisories, 1)
	assert.Equal(t, payroll.AdvisoryAmbiguousRate, resp.Advisories[0].Code)
	assert.Equal(t, string(payroll.StatusCalculated), resp.Payroll.Status)
}

func TestPayrollService_Calculate_InsufficientBalanceKeepsDraft(t *testing.T) {
	t.Parallel()

	// Real adjuster against a nearly exhausted sick balance: 2 requested paid
	// sick days cannot fit in 10-9 remaining.
	absenceRepo := &fakeAbsenceRepo{records: []absence.AbsenceRecord{{
		ID: "abs-1", EmployeeID: "emp-1", Type: absence.TypeSickLeave, Status: absence.StatusApproved,
		StartDate: time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.January, 7, 0, 0, 0, 0, time.UTC),
	}}}
	balances := []absence.AbsenceBalance{{
		ID: "bal-1", EmployeeID: "emp-1", Type: absence.TypeSickLeave, Year: 2025,
		TotalDays: decimal.RequireFromString("10"), UsedDays: decimal.RequireFromString("9"),
	}}
	balanceRepo := newFakeBalanceRepo(balances...)
	h := newHarness(t, harnessOpts{
		adjuster: absencesvc.NewAbsenceAdjuster(absenceRepo, balanceRepo),
		balances: balances,
	})
	created := createDraft(t, h)

	_, err := h.service.Calculate(context.Background(), created.ID, payroll.CalculatePayrollRequest{Version: 0}, "actor-1")

	require.ErrorIs(t, err, absence.ErrInsufficientBalance)
	stored, getErr := h.payrollRepo.GetByID(context.Background(), created.ID)
	require.NoError(t, getErr)
	assert.Equal(t, payroll.StatusDraft, stored.Status)
	assert.EqualValues(t, 0, stored.Version)
}

func TestPayrollService_Recalculate_ReturnsPriorConsumption(t *testing.T) {
	t.Parallel()

	profile := hourlyProfile(t, "20")
	profile.SickLeaveRules = []compensation.SickLeaveRule{{
		ID: "slr-1", EmployeeID: "emp-1", Percentage: decimal.NewFromInt(100),
		Window: openWindow(t, 2024, time.January, 1),
	}}
	impact := absence.Impact{
		UnpaidDays: decimal.Zero,
		Consumptions: []absence.Consumption{
			{Type: absence.TypeSickLeave, Year: 2025, Days: decimal.RequireFromString("3")},
		},
	}
	h := newHarness(t, harnessOpts{
		resolver: stubResolver{profile: profile},
		adjuster: stubAdjuster{impact: impact},
		balances: []absence.AbsenceBalance{{
			ID: "bal-1", EmployeeID: "emp-1", Type: absence.TypeSickLeave, Year: 2025,
			TotalDays: decimal.RequireFromString("5"), UsedDays: decimal.Zero,
		}},
	})
	created := createDraft(t, h)
	ctx := context.Background()

	first, err := h.service.Calculate(ctx, created.ID, payroll.CalculatePayrollRequest{Version: 0}, "actor-1")
	require.NoError(t, err)
	// A second run with only 5 total days would fail if the first draw stuck.
	second, err := h.service.Calculate(ctx, first.Payroll.ID, payroll.CalculatePayrollRequest{Version: 1}, "actor-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.Payroll.Version)

	bal, err := h.balanceRepo.Get(ctx, "emp-1", absence.TypeSickLeave, 2025)
	require.NoError(t, err)
	assert.True(t, bal.UsedDays.Equal(decimal.RequireFromString("3")), "used %s", bal.UsedDays)
}

func TestPayrollService_Lifecycle_FullHappyPath(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})
	created := createDraft(t, h)
	ctx := context.Background()

	calculated, err := h.service.Calculate(ctx, created.ID, payroll.CalculatePayrollRequest{Version: 0}, "actor-1")
	require.NoError(t, err)

	approved, err := h.service.Approve(ctx, created.ID, payroll.TransitionRequest{Version: calculated.Payroll.Version}, "manager-1")
	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusApproved), approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "manager-1", *approved.ApprovedBy)

	processed, err := h.service.Process(ctx, created.ID, payroll.TransitionRequest{Version: approved.Version}, "actor-1")
	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusProcessed), processed.Status)

	paid, err := h.service.MarkPaid(ctx, created.ID, payroll.MarkPaidRequest{Version: processed.Version, PaymentReference: "wire-42"}, "actor-1")
	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusPaid), paid.Status)
	require.NotNil(t, paid.PaymentReference)
	assert.Equal(t, "wire-42", *paid.PaymentReference)

	kinds := make([]payroll.EventKind, 0, len(h.emitter.events))
	for _, e := range h.emitter.events {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []payroll.EventKind{
		payroll.EventCreated, payroll.EventCalculated, payroll.EventApproved,
		payroll.EventProcessed, payroll.EventPaid,
	}, kinds)
}

func TestPayrollService_Approve_FromDraftRejected(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})
	created := createDraft(t, h)

	_, err := h.service.Approve(context.Background(), created.ID, payroll.TransitionRequest{Version: 0}, "manager-1")

	assert.ErrorIs(t, err, payroll.ErrInvalidStateTransition)
	stored, getErr := h.payrollRepo.GetByID(context.Background(), created.ID)
	require.NoError(t, getErr)
	assert.Equal(t, payroll.StatusDraft, stored.Status)
}

func TestPayrollService_Calculate_OnApprovedRejected(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})
	created := createDraft(t, h)
	ctx := context.Background()

	calculated, err := h.service.Calculate(ctx, created.ID, payroll.CalculatePayrollRequest{Version: 0}, "actor-1")
	require.NoError(t, err)
	approved, err := h.service.Approve(ctx, created.ID, payroll.TransitionRequest{Version: calculated.Payroll.Version}, "manager-1")
	require.NoError(t, err)

	_, err = h.service.Calculate(ctx, created.ID, payroll.CalculatePayrollRequest{Version: approved.Version}, "actor-1")

	assert.ErrorIs(t, err, payroll.ErrInvalidStateTransition)
}

func TestPayrollService_Process_FromDraftRejected(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})
	created := createDraft(t, h)

	_, err := h.service.Process(context.Background(), created.ID, payroll.TransitionRequest{Version: 0}, "actor-1")

	assert.ErrorIs(t, err, payroll.ErrInvalidStateTransition)
}

func TestPayrollService_MarkPaid_RequiresReference(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})
	created := createDraft(t, h)

	_, err := h.service.MarkPaid(context.Background(), created.ID, payroll.MarkPaidRequest{Version: 0}, "actor-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment_reference")
}

func TestPayrollService_Cancel_ReturnsConsumedDays(t *testing.T) {
	t.Parallel()

	impact := absence.Impact{
		UnpaidDays: decimal.Zero,
		Consumptions: []absence.Consumption{
			{Type: absence.TypeVacation, Year: 2025, Days: decimal.RequireFromString("4")},
		},
	}
	h := newHarness(t, harnessOpts{
		adjuster: stubAdjuster{impact: impact},
		balances: []absence.AbsenceBalance{{
			ID: "bal-1", EmployeeID: "emp-1", Type: absence.TypeVacation, Year: 2025,
			TotalDays: decimal.RequireFromString("20"), UsedDays: decimal.Zero,
		}},
	})
	created := createDraft(t, h)
	ctx := context.Background()

	calculated, err := h.service.Calculate(ctx, created.ID, payroll.CalculatePayrollRequest{Version: 0}, "actor-1")
	require.NoError(t, err)

	cancelled, err := h.service.Cancel(ctx, created.ID, payroll.TransitionRequest{Version: calculated.Payroll.Version}, "actor-1")
	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusCancelled), cancelled.Status)

	bal, err := h.balanceRepo.Get(ctx, "emp-1", absence.TypeVacation, 2025)
	require.NoError(t, err)
	assert.True(t, bal.UsedDays.IsZero(), "used %s", bal.UsedDays)
}

func TestPayrollService_Cancel_PaidRejected(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})
	created := createDraft(t, h)
	ctx := context.Background()

	calculated, err := h.service.Calculate(ctx, created.ID, payroll.CalculatePayrollRequest{Version: 0}, "actor-1")
	require.NoError(t, err)
	approved, err := h.service.Approve(ctx, created.ID, payroll.TransitionRequest{Version: calculated.Payroll.Version}, "actor-1")
	require.NoError(t, err)
	processed, err := h.service.Process(ctx, created.ID, payroll.TransitionRequest{Version: approved.Version}, "actor-1")
	require.NoError(t, err)
	paid, err := h.service.MarkPaid(ctx, created.ID, payroll.MarkPaidRequest{Version: processed.Version, PaymentReference: "wire-1"}, "actor-1")
	require.NoError(t, err)

	_, err = h.service.Cancel(ctx, created.ID, payroll.TransitionRequest{Version: paid.Version}, "actor-1")

	assert.ErrorIs(t, err, payroll.ErrInvalidStateTransition)
}

func TestPayrollService_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})

	_, err := h.service.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
}
