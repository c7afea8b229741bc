package installment

import (
	"chitfund-engine/internal/pkg/apperrors"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

type AllocationEntry struct {
	MonthIndex int             `json:"monthIndex"`
	Due        decimal.Decimal `json:"due"`
	Penalty    decimal.Decimal `json:"penalty"`
	Apply      decimal.Decimal `json:"apply"`
}

type AllocationPlan struct {
	Entries           []AllocationEntry `json:"entries"`
	PlannedTotal      decimal.Decimal   `json:"plannedTotal"`
	Unallocated       decimal.Decimal   `json:"unallocated"`
	CurrentMonthIndex int               `json:"currentMonthIndex"`
}

// Summary encodes the plan in the form stored on a payment request as allocationSummary.
func (p *AllocationPlan) Summary() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode allocation summary: %w", err)
	}
	return string(b), nil
}

func (p *AllocationPlan) Applied() decimal.Decimal {
	total := decimal.Zero
	for _, e := range p.Entries {
		total = total.Add(e.Apply)
	}
	return total
}

type ExceedsCeilingError struct {
	Requested     decimal.Decimal
	MaxPayableNow decimal.Decimal
}

func (e *ExceedsCeilingError) Error() string {
	return fmt.Sprintf("%s: requested %s, max payable now %s",
		apperrors.ErrExceedsCeiling, e.Requested.StringFixed(2), e.MaxPayableNow.StringFixed(2))
}

func (e *ExceedsCeilingError) Unwrap() error {
	return apperrors.ErrExceedsCeiling
}

// Plan allocates amount greedily: overdue months oldest first (principal plus penalty),
// then the current month. It only proposes; the ledger is never touched.
func Plan(amount decimal.Decimal, info OverdueInfo, current int) (*AllocationPlan, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero, got %s", apperrors.ErrInvalidPaymentAmount, amount.String())
	}
	if amount.GreaterThan(info.MaxPayableNow) {
		return nil, &ExceedsCeilingError{Requested: amount, MaxPayableNow: info.MaxPayableNow}
	}

	overdue := make([]OverdueDetail, len(info.Details))
	copy(overdue, info.Details)
	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].MonthIndex < overdue[j].MonthIndex
	})

	plan := &AllocationPlan{
		Entries:           make([]AllocationEntry, 0, len(overdue)+1),
		PlannedTotal:      amount,
		CurrentMonthIndex: current,
	}
	left := amount

	for _, d := range overdue {
		if !left.IsPositive() {
			break
		}
		apply := decimal.Min(left, d.Remaining.Add(d.Penalty))
		plan.Entries = append(plan.Entries, AllocationEntry{
			MonthIndex: d.MonthIndex,
			Due:        d.Remaining,
			Penalty:    d.Penalty,
			Apply:      apply,
		})
		left = left.Sub(apply)
	}

	if left.IsPositive() && info.CurrentMonthRemaining.IsPositive() {
		apply := decimal.Min(left, info.CurrentMonthRemaining)
		plan.Entries = append(plan.Entries, AllocationEntry{
			MonthIndex: current,
			Due:        info.CurrentMonthRemaining,
			Penalty:    decimal.Zero,
			Apply:      apply,
		})
		left = left.Sub(apply)
	}

	plan.Unallocated = left
	return plan, nil
}
