package installment

import "github.com/shopspring/decimal"

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

type OverdueDetail struct {
	MonthIndex     int             `json:"monthIndex"`
	Remaining      decimal.Decimal `json:"remaining"`
	MonthsOverdue  int             `json:"monthsOverdue"`
	Penalty        decimal.Decimal `json:"penalty"`
	TotalIfCleared decimal.Decimal `json:"totalIfCleared"`
}

type OverdueInfo struct {
	Details               []OverdueDetail `json:"details"`
	TotalOverdueRemaining decimal.Decimal `json:"totalOverdueRemaining"`
	TotalPenaltyIfPaidNow decimal.Decimal `json:"totalPenaltyIfPaidNow"`
	CurrentMonthRemaining decimal.Decimal `json:"currentMonthRemaining"`
	MaxPayableNow         decimal.Decimal `json:"maxPayableNow"`
}

// CompoundPenalty compounds remaining once per elapsed month at percent per month and
// returns the accrued penalty rounded to whole currency units.
func CompoundPenalty(remaining, percent decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 || !remaining.IsPositive() || !percent.IsPositive() {
		return decimal.Zero
	}
	factor := one.Add(percent.Div(hundred))
	compounded := remaining
	for i := 0; i < months; i++ {
		compounded = compounded.Mul(factor)
	}
	return compounded.Sub(remaining).Round(0)
}

// ComputeOverdue walks every month before current. The current month is never overdue.
func ComputeOverdue(buckets []MonthBucket, current int, percent decimal.Decimal) OverdueInfo {
	info := OverdueInfo{
		Details:               []OverdueDetail{},
		TotalOverdueRemaining: decimal.Zero,
		TotalPenaltyIfPaidNow: decimal.Zero,
		CurrentMonthRemaining: decimal.Zero,
	}

	for month := 1; month < current && month <= len(buckets); month++ {
		remaining := buckets[month-1].Remaining
		if !remaining.IsPositive() {
			continue
		}
		monthsOverdue := current - month
		penalty := CompoundPenalty(remaining, percent, monthsOverdue)
		info.Details = append(info.Details, OverdueDetail{
			MonthIndex:     month,
			Remaining:      remaining,
			MonthsOverdue:  monthsOverdue,
			Penalty:        penalty,
			TotalIfCleared: remaining.Add(penalty),
		})
		info.TotalOverdueRemaining = info.TotalOverdueRemaining.Add(remaining)
		info.TotalPenaltyIfPaidNow = info.TotalPenaltyIfPaidNow.Add(penalty)
	}

	if current >= 1 && current <= len(buckets) {
		info.CurrentMonthRemaining = buckets[current-1].Remaining
	}
	info.MaxPayableNow = info.TotalOverdueRemaining.
		Add(info.TotalPenaltyIfPaidNow).
		Add(info.CurrentMonthRemaining)
	return info
}
