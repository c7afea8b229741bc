package installment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement is the full recomputation for one member of one group at a point in time.
type Statement struct {
	Schedule          GroupSchedule
	CurrentMonthIndex int
	Buckets           []MonthBucket
	Overdue           OverdueInfo
	Pending           []PaymentRecord
	Warnings          []error
}

// BuildStatement runs the whole pipeline over the raw ledger. It holds no state, so
// calling it again with the same inputs yields the same statement.
func BuildStatement(g Group, raw []map[string]any, groupID, memberID string, now time.Time) Statement {
	schedule := NewGroupSchedule(g)
	current := CurrentMonthIndex(schedule.StartDate, now)
	ledger := NormalizeLedger(raw, groupID, memberID)
	buckets := BuildBuckets(ledger.Records, schedule, current)

	return Statement{
		Schedule:          schedule,
		CurrentMonthIndex: current,
		Buckets:           buckets,
		Overdue:           ComputeOverdue(buckets, current, schedule.PenaltyPercentPerMonth),
		Pending:           ledger.Pending(),
		Warnings:          ledger.Warnings,
	}
}

func (s Statement) Plan(amount decimal.Decimal) (*AllocationPlan, error) {
	return Plan(amount, s.Overdue, s.CurrentMonthIndex)
}

func (s Statement) IsOverdue() bool {
	return len(s.Overdue.Details) > 0
}
