package installment

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxTotalMonths bounds the schedule length read from the store; larger values are
// treated as invalid.
const MaxTotalMonths = 1200

// Group is the chit group as read from the store, with every numeric field coerced.
type Group struct {
	MonthlyInstallment decimal.Decimal
	ChitValue          decimal.Decimal
	TotalMonths        int
	MemberCount        int
	StartDate          time.Time
	PenaltyPercent     decimal.Decimal
}

type GroupSchedule struct {
	PerMemberInstallment   decimal.Decimal
	TotalMonths            int
	StartDate              time.Time
	PenaltyPercentPerMonth decimal.Decimal
}

// ParseGroup never fails: absent or unparsable fields resolve to zero values.
func ParseGroup(raw map[string]any) Group {
	g := Group{
		MonthlyInstallment: nonNegative(raw["monthlyInstallment"]),
		ChitValue:          nonNegative(raw["chitValue"]),
		PenaltyPercent:     nonNegative(raw["penaltyPercent"]),
		MemberCount:        1,
	}

	if months, ok := intFromAny(raw["totalMonths"]); ok && months > 0 && months <= MaxTotalMonths {
		g.TotalMonths = months
	}

	if n, ok := intFromAny(raw["totalMembers"]); ok && n > 0 {
		g.MemberCount = n
	} else if members, ok := raw["members"].([]any); ok && len(members) > 0 {
		g.MemberCount = len(members)
	}

	if start, ok := ParseTime(raw["startDate"]); ok {
		g.StartDate = start
	}
	return g
}

func NewGroupSchedule(g Group) GroupSchedule {
	months := g.TotalMonths
	if months < 1 {
		months = 1
	}
	percent := g.PenaltyPercent
	if percent.IsNegative() {
		percent = decimal.Zero
	}
	return GroupSchedule{
		PerMemberInstallment:   PerMemberInstallment(g),
		TotalMonths:            months,
		StartDate:              g.StartDate,
		PenaltyPercentPerMonth: percent,
	}
}

// PerMemberInstallment prefers the explicit monthly installment and otherwise splits the
// chit value evenly across months and members.
func PerMemberInstallment(g Group) decimal.Decimal {
	if g.MonthlyInstallment.IsPositive() {
		return g.MonthlyInstallment
	}
	if !g.ChitValue.IsPositive() {
		return decimal.Zero
	}
	months := int64(max(1, g.TotalMonths))
	members := int64(max(1, g.MemberCount))
	return g.ChitValue.
		Div(decimal.NewFromInt(months)).
		Div(decimal.NewFromInt(members)).
		Round(2)
}

// CurrentMonthIndex returns the one-based installment month that now falls in. A month
// only rolls over once now reaches the start date's day of month. Each date is read in
// its own zone, so a date-only start follows the calendar of the caller's clock.
func CurrentMonthIndex(start, now time.Time) int {
	if start.IsZero() || now.IsZero() {
		return 1
	}

	y1, m1, d1 := start.Date()
	y2, m2, d2 := now.Date()
	months := (y2-y1)*12 + int(m2-m1)
	if d2 < d1 {
		months--
	}
	if months < 0 {
		return 1
	}
	return months + 1
}
