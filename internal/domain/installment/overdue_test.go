package installment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeOverdueNoPaymentsScenario(t *testing.T) {
	s := scenarioSchedule()
	current := CurrentMonthIndex(s.StartDate, date(2024, 4, 15))
	require.Equal(t, 4, current)

	info := ComputeOverdue(BuildBuckets(nil, s, current), current, s.PenaltyPercentPerMonth)

	require.Len(t, info.Details, 3)
	wantMonths := []int{3, 2, 1}
	wantPenalty := []string{"306", "202", "100"}
	for i, d := range info.Details {
		assert.Equal(t, i+1, d.MonthIndex)
		assert.Equal(t, wantMonths[i], d.MonthsOverdue)
		assertMoney(t, "5000", d.Remaining)
		assertMoney(t, wantPenalty[i], d.Penalty)
		assertMoney(t, money("5000").Add(money(wantPenalty[i])).String(), d.TotalIfCleared)
	}
	assertMoney(t, "15000", info.TotalOverdueRemaining)
	assertMoney(t, "608", info.TotalPenaltyIfPaidNow)
	assertMoney(t, "5000", info.CurrentMonthRemaining)
	assertMoney(t, "20608", info.MaxPayableNow)
}

func TestComputeOverdueFirstMonthHasNothingOverdue(t *testing.T) {
	s := scenarioSchedule()

	info := ComputeOverdue(BuildBuckets(nil, s, 1), 1, s.PenaltyPercentPerMonth)

	assert.NotNil(t, info.Details)
	assert.Empty(t, info.Details)
	assertMoney(t, "0", info.TotalOverdueRemaining)
	assertMoney(t, "5000", info.MaxPayableNow)
}

func TestComputeOverdueSkipsPaidMonths(t *testing.T) {
	s := scenarioSchedule()
	payments := []PaymentRecord{
		{ID: "p1", Amount: money("5000"), MonthIndex: 1, IsApproved: true},
		{ID: "p2", Amount: money("3000"), MonthIndex: 2, IsApproved: true},
	}

	info := ComputeOverdue(BuildBuckets(payments, s, 3), 3, s.PenaltyPercentPerMonth)

	require.Len(t, info.Details, 1)
	assert.Equal(t, 2, info.Details[0].MonthIndex)
	assertMoney(t, "2000", info.Details[0].Remaining)
	assertMoney(t, "40", info.Details[0].Penalty)
}

func TestComputeOverdueZeroRateHasNoPenalty(t *testing.T) {
	s := scenarioSchedule()

	info := ComputeOverdue(BuildBuckets(nil, s, 3), 3, money("0"))

	require.Len(t, info.Details, 2)
	assertMoney(t, "0", info.TotalPenaltyIfPaidNow)
	assertMoney(t, "15000", info.MaxPayableNow)
}

func TestCompoundPenaltyIsStrictlyIncreasing(t *testing.T) {
	remaining := money("5000")
	rate := money("2")

	previous := CompoundPenalty(remaining, rate, 1)
	for months := 2; months <= 36; months++ {
		current := CompoundPenalty(remaining, rate, months)
		assert.Truef(t, current.GreaterThan(previous), "penalty at %d months (%s) should exceed %s", months, current, previous)
		previous = current
	}
}

func TestCompoundPenaltyEdges(t *testing.T) {
	assertMoney(t, "0", CompoundPenalty(money("5000"), money("2"), 0))
	assertMoney(t, "0", CompoundPenalty(money("0"), money("2"), 3))
	assertMoney(t, "0", CompoundPenalty(money("5000"), money("0"), 3))
	assertMoney(t, "306", CompoundPenalty(money("5000"), money("2"), 3))
}
