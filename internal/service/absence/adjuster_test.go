package absence

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paycove/payroll-backend-go/internal/domain/absence"
	"github.com/paycove/payroll-backend-go/internal/domain/dates"
)

type fakeAbsenceRepo struct {
	records []absence.AbsenceRecord
}

func (f *fakeAbsenceRepo) Create(ctx context.Context, rec absence.AbsenceRecord) (absence.AbsenceRecord, error) {
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeAbsenceRepo) GetByID(ctx context.Context, id string) (absence.AbsenceRecord, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return absence.AbsenceRecord{}, pgx.ErrNoRows
}

func (f *fakeAbsenceRepo) Update(ctx context.Context, rec absence.AbsenceRecord) error {
	for i := range f.records {
		if f.records[i].ID == rec.ID {
			f.records[i] = rec
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeAbsenceRepo) ListByEmployee(ctx context.Context, employeeID string) ([]absence.AbsenceRecord, error) {
	var out []absence.AbsenceRecord
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	return out, nil
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

type fakeBalanceRepo struct {
	balances []absence.AbsenceBalance
}

func (f *fakeBalanceRepo) Create(ctx context.Context, bal absence.AbsenceBalance) (absence.AbsenceBalance, error) {
	f.balances = append(f.balances, bal)
	return bal, nil
}

func (f *fakeBalanceRepo) Get(ctx context.Context, employeeID string, absenceType absence.AbsenceType, year int) (absence.AbsenceBalance, error) {
	for _, bal := range f.balances {
		if bal.EmployeeID == employeeID && bal.Type == absenceType && bal.Year == year {
			return bal, nil
		}
	}
	return absence.AbsenceBalance{}, pgx.ErrNoRows
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
	for i := range f.balances {
		if f.balances[i].ID == bal.ID {
			f.balances[i] = bal
			return nil
		}
	}
	return pgx.ErrNoRows
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func approvedAbsence(id string, at absence.AbsenceType, start, end time.Time) absence.AbsenceRecord {
	return absence.AbsenceRecord{
		ID:         id,
		EmployeeID: "emp-1",
		Type:       at,
		Status:     absence.StatusApproved,
		StartDate:  start,
		EndDate:    end,
	}
}

func balance(at absence.AbsenceType, year int, total, used string) absence.AbsenceBalance {
	return absence.AbsenceBalance{
		ID:         string(at) + "-bal",
		EmployeeID: "emp-1",
		Type:       at,
		Year:       year,
		TotalDays:  decimal.RequireFromString(total),
		UsedDays:   decimal.RequireFromString(used),
	}
}

func TestAbsenceAdjuster_Assess_SplitsPaidAndUnpaid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	absenceRepo := &fakeAbsenceRepo{records: []absence.AbsenceRecord{
		approvedAbsence("abs-1", absence.TypeSickLeave, day(2025, time.January, 6), day(2025, time.January, 8)),
		approvedAbsence("abs-2", absence.TypeUnpaidLeave, day(2025, time.January, 20), day(2025, time.January, 21)),
		// pending, must not count
		{ID: "abs-3", EmployeeID: "emp-1", Type: absence.TypeVacation, Status: absence.StatusPending,
			StartDate: day(2025, time.January, 10), EndDate: day(2025, time.January, 12)},
	}}
	balanceRepo := &fakeBalanceRepo{balances: []absence.AbsenceBalance{
		balance(absence.TypeSickLeave, 2025, "10", "0"),
	}}
	adjuster := NewAbsenceAdjuster(absenceRepo, balanceRepo)

	// Act
	impact, err := adjuster.Assess(ctx, "emp-1", dates.MonthlyPeriod(2025, time.January))

	// Assert
	require.NoError(t, err)
	assert.True(t, impact.UnpaidDays.Equal(decimal.RequireFromString("2")), "got %s", impact.UnpaidDays)
	require.Len(t, impact.Consumptions, 1)
	assert.Equal(t, absence.TypeSickLeave, impact.Consumptions[0].Type)
	assert.Equal(t, 2025, impact.Consumptions[0].Year)
	assert.True(t, impact.Consumptions[0].Days.Equal(decimal.RequireFromString("3")))
}

func TestAbsenceAdjuster_Assess_ClipsToPeriod(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// 2024-12-30 .. 2025-01-03: two days belong to January, charged to the
	// 2024 balance because the absence started in 2024.
	absenceRepo := &fakeAbsenceRepo{records: []absence.AbsenceRecord{
		approvedAbsence("abs-1", absence.TypeVacation, day(2024, time.December, 30), day(2025, time.January, 3)),
	}}
	balanceRepo := &fakeBalanceRepo{balances: []absence.AbsenceBalance{
		balance(absence.TypeVacation, 2024, "20", "5"),
	}}
	adjuster := NewAbsenceAdjuster(absenceRepo, balanceRepo)

	// Act
	impact, err := adjuster.Assess(ctx, "emp-1", dates.MonthlyPeriod(2025, time.January))

	// Assert
	require.NoError(t, err)
	require.Len(t, impact.Consumptions, 1)
	assert.Equal(t, 2024, impact.Consumptions[0].Year)
	assert.True(t, impact.Consumptions[0].Days.Equal(decimal.RequireFromString("3")), "got %s", impact.Consumptions[0].Days)
}

func TestAbsenceAdjuster_Assess_InsufficientBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	absenceRepo := &fakeAbsenceRepo{records: []absence.AbsenceRecord{
		approvedAbsence("abs-1", absence.TypeVacation, day(2025, time.January, 6), day(2025, time.January, 17)),
	}}
	balanceRepo := &fakeBalanceRepo{balances: []absence.AbsenceBalance{
		balance(absence.TypeVacation, 2025, "20", "15"),
	}}
	adjuster := NewAbsenceAdjuster(absenceRepo, balanceRepo)

	// Act
	_, err := adjuster.Assess(ctx, "emp-1", dates.MonthlyPeriod(2025, time.January))

	// Assert
	assert.ErrorIs(t, err, absence.ErrInsufficientBalance)
}

func TestAbsenceAdjuster_Assess_MissingBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	absenceRepo := &fakeAbsenceRepo{records: []absence.AbsenceRecord{
		approvedAbsence("abs-1", absence.TypeSickLeave, day(2025, time.January, 6), day(2025, time.January, 7)),
	}}
	adjuster := NewAbsenceAdjuster(absenceRepo, &fakeBalanceRepo{})

	// Act
	_, err := adjuster.Assess(ctx, "emp-1", dates.MonthlyPeriod(2025, time.January))

	// Assert
	assert.ErrorIs(t, err, absence.ErrInsufficientBalance)
}

func TestAbsenceAdjuster_Assess_MergesSameTypeAndYear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	absenceRepo := &fakeAbsenceRepo{records: []absence.AbsenceRecord{
		approvedAbsence("abs-1", absence.TypeSickLeave, day(2025, time.January, 6), day(2025, time.January, 7)),
		approvedAbsence("abs-2", absence.TypeSickLeave, day(2025, time.January, 20), day(2025, time.January, 22)),
	}}
	balanceRepo := &fakeBalanceRepo{balances: []absence.AbsenceBalance{
		balance(absence.TypeSickLeave, 2025, "10", "0"),
	}}
	adjuster := NewAbsenceAdjuster(absenceRepo, balanceRepo)

	// Act
	impact, err := adjuster.Assess(ctx, "emp-1", dates.MonthlyPeriod(2025, time.January))

	// Assert
	require.NoError(t, err)
	require.Len(t, impact.Consumptions, 1)
	assert.True(t, impact.Consumptions[0].Days.Equal(decimal.RequireFromString("5")))
}
