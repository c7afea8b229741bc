package installment

import (
	"chitfund-engine/internal/pkg/apperrors"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioOverdue() OverdueInfo {
	s := scenarioSchedule()
	return ComputeOverdue(BuildBuckets(nil, s, 4), 4, s.PenaltyPercentPerMonth)
}

func TestPlanRejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []string{"0", "-1", "-5000"} {
		t.Run(amount, func(t *testing.T) {
			plan, err := Plan(money(amount), scenarioOverdue(), 4)

			assert.Nil(t, plan)
			assert.ErrorIs(t, err, apperrors.ErrInvalidPaymentAmount)
		})
	}
}

func TestPlanRejectsAmountAboveCeiling(t *testing.T) {
	plan, err := Plan(money("20608.01"), scenarioOverdue(), 4)

	assert.Nil(t, plan)
	require.ErrorIs(t, err, apperrors.ErrExceedsCeiling)
	var ceilingErr *ExceedsCeilingError
	require.True(t, errors.As(err, &ceilingErr))
	assertMoney(t, "20608", ceilingErr.MaxPayableNow)
	assert.Contains(t, err.Error(), "max payable now 20608.00")
}

func TestPlanAcceptsExactCeiling(t *testing.T) {
	plan, err := Plan(money("20608"), scenarioOverdue(), 4)

	require.NoError(t, err)
	require.Len(t, plan.Entries, 4)
	wantApply := []string{"5306", "5202", "5100", "5000"}
	for i, e := range plan.Entries {
		assert.Equal(t, i+1, e.MonthIndex)
		assertMoney(t, wantApply[i], e.Apply)
	}
	assertMoney(t, "0", plan.Unallocated)
	assert.Equal(t, 4, plan.CurrentMonthIndex)
}

func TestPlanPartialAmountStopsAtOldestMonth(t *testing.T) {
	plan, err := Plan(money("5400"), scenarioOverdue(), 4)

	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)
	assert.Equal(t, 1, plan.Entries[0].MonthIndex)
	assertMoney(t, "5306", plan.Entries[0].Apply)
	assertMoney(t, "5000", plan.Entries[0].Due)
	assertMoney(t, "306", plan.Entries[0].Penalty)
	assert.Equal(t, 2, plan.Entries[1].MonthIndex)
	assertMoney(t, "94", plan.Entries[1].Apply)
}

func TestPlanConservesAmount(t *testing.T) {
	info := scenarioOverdue()
	step := money("997")

	for amount := money("1"); amount.LessThanOrEqual(info.MaxPayableNow); amount = amount.Add(step) {
		plan, err := Plan(amount, info, 4)
		require.NoError(t, err)
		assertMoney(t, amount.String(), plan.Applied().Add(plan.Unallocated), "amount", amount.String())
		assertMoney(t, amount.String(), plan.PlannedTotal)
		assertMoney(t, "0", plan.Unallocated)
	}
}

func TestPlanOrdersOverdueOldestFirst(t *testing.T) {
	info := scenarioOverdue()
	shuffled := []OverdueDetail{info.Details[2], info.Details[0], info.Details[1]}
	info.Details = shuffled

	plan, err := Plan(info.MaxPayableNow, info, 4)

	require.NoError(t, err)
	for i := 1; i < len(plan.Entries); i++ {
		assert.Less(t, plan.Entries[i-1].MonthIndex, plan.Entries[i].MonthIndex)
	}
	assert.Equal(t, 4, plan.Entries[len(plan.Entries)-1].MonthIndex)
	assert.Equal(t, 3, shuffled[0].MonthIndex, "caller's slice is left untouched")
}

func TestPlanCurrentMonthOnly(t *testing.T) {
	s := scenarioSchedule()
	info := ComputeOverdue(BuildBuckets(nil, s, 1), 1, s.PenaltyPercentPerMonth)

	plan, err := Plan(money("2500"), info, 1)

	require.NoError(t, err)
	require.Len(t, plan.Entries, 1)
	assert.Equal(t, 1, plan.Entries[0].MonthIndex)
	assertMoney(t, "2500", plan.Entries[0].Apply)
	assertMoney(t, "0", plan.Entries[0].Penalty)
}

func TestPlanNothingPayable(t *testing.T) {
	info := OverdueInfo{MaxPayableNow: decimal.Zero, CurrentMonthRemaining: decimal.Zero}

	_, err := Plan(money("1"), info, 3)

	assert.ErrorIs(t, err, apperrors.ErrExceedsCeiling)
}

func TestPlanSummaryFeedsBackIntoLedger(t *testing.T) {
	plan, err := Plan(money("20608"), scenarioOverdue(), 4)
	require.NoError(t, err)
	summary, err := plan.Summary()
	require.NoError(t, err)

	raw := []map[string]any{{
		"_id":               "req-1",
		"memberId":          "m1",
		"amount":            "20608",
		"status":            "approved",
		"allocationSummary": summary,
	}}
	ledger := NormalizeLedger(raw, "g1", "m1")
	require.Empty(t, ledger.Warnings)
	buckets := BuildBuckets(ledger.Records, scenarioSchedule(), 4)

	for month := 1; month <= 4; month++ {
		assert.Equal(t, StatusPaidInFull, buckets[month-1].Status, "month %d", month)
	}
	assertMoney(t, "306", buckets[0].PenaltyPaid)
	assertMoney(t, "202", buckets[1].PenaltyPaid)
	assertMoney(t, "100", buckets[2].PenaltyPaid)
	assertMoney(t, "0", buckets[3].PenaltyPaid)
	assert.Equal(t, StatusUnpaid, buckets[4].Status)
}
