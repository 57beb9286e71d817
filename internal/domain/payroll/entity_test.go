package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calculatedPayroll() Payroll {
	return Payroll{
		ID:         "pr-1",
		EmployeeID: "emp-1",
		Status:     StatusCalculated,
		Version:    1,
		Breakdown: &Breakdown{
			Currency: "USD",
			NetPay:   decimal.RequireFromString("1600"),
		},
	}
}

func TestPayroll_Approve_WithoutBreakdownRejected(t *testing.T) {
	t.Parallel()

	// A row claiming calculated status but carrying no breakdown is corrupt
	// and must not be approvable.
	p := calculatedPayroll()
	p.Breakdown = nil

	err := p.Approve("manager-1")

	assert.ErrorIs(t, err, ErrNotCalculated)
	assert.Equal(t, StatusCalculated, p.Status)
}

func TestPayroll_Approve_SetsApprover(t *testing.T) {
	t.Parallel()
	p := calculatedPayroll()

	err := p.Approve("manager-1")

	require.NoError(t, err)
	assert.Equal(t, StatusApproved, p.Status)
	require.NotNil(t, p.ApprovedBy)
	assert.Equal(t, "manager-1", *p.ApprovedBy)
}

func TestPayroll_CanTransitionTo_Table(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		from    PayrollStatus
		to      PayrollStatus
		allowed bool
	}{
		{"draft to calculated", StatusDraft, StatusCalculated, true},
		{"recalculate", StatusCalculated, StatusCalculated, true},
		{"draft to approved", StatusDraft, StatusApproved, false},
		{"approved to calculated", StatusApproved, StatusCalculated, false},
		{"approved to processed", StatusApproved, StatusProcessed, true},
		{"processed to paid", StatusProcessed, StatusPaid, true},
		{"paid to cancelled", StatusPaid, StatusCancelled, false},
		{"approved to cancelled", StatusApproved, StatusCancelled, true},
		{"cancelled to anything", StatusCancelled, StatusCalculated, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := Payroll{Status: tc.from}
			assert.Equal(t, tc.allowed, p.CanTransitionTo(tc.to))
		})
	}
}
