package installment

import "github.com/shopspring/decimal"

type BucketStatus string

const (
	StatusUnpaid     BucketStatus = "Unpaid"
	StatusPartial    BucketStatus = "Partial"
	StatusPaidInFull BucketStatus = "Paid in full"
)

type MonthBucket struct {
	MonthIndex    int             `json:"monthIndex"`
	PrincipalPaid decimal.Decimal `json:"principalPaid"`
	PenaltyPaid   decimal.Decimal `json:"penaltyPaid"`
	Expected      decimal.Decimal `json:"expected"`
	Remaining     decimal.Decimal `json:"remaining"`
	Status        BucketStatus    `json:"status"`
}

// BuildBuckets folds approved payments into one bucket per installment month. The
// result covers max(TotalMonths, current) months.
func BuildBuckets(payments []PaymentRecord, s GroupSchedule, current int) []MonthBucket {
	count := max(s.TotalMonths, current, 1)
	expected := s.PerMemberInstallment
	if expected.IsNegative() {
		expected = decimal.Zero
	}

	buckets := make([]MonthBucket, count)
	for i := range buckets {
		buckets[i] = MonthBucket{
			MonthIndex:    i + 1,
			PrincipalPaid: decimal.Zero,
			PenaltyPaid:   decimal.Zero,
			Expected:      expected,
		}
	}

	for _, p := range payments {
		if !p.IsApproved {
			continue
		}
		if len(p.AllocationDetails) > 0 {
			for _, d := range p.AllocationDetails {
				b := &buckets[clamp(d.MonthIndex, 1, count)-1]
				b.PrincipalPaid = b.PrincipalPaid.Add(d.PrincipalPaid)
				b.PenaltyPaid = b.PenaltyPaid.Add(d.PenaltyPaid)
			}
			continue
		}
		b := &buckets[clamp(targetMonth(p, s, current), 1, count)-1]
		b.PrincipalPaid = b.PrincipalPaid.Add(p.Amount)
	}

	for i := range buckets {
		finalize(&buckets[i])
	}
	return buckets
}

func targetMonth(p PaymentRecord, s GroupSchedule, current int) int {
	if p.MonthIndex > 0 {
		return p.MonthIndex
	}
	if !s.StartDate.IsZero() && !p.Date.IsZero() {
		return CurrentMonthIndex(s.StartDate, p.Date)
	}
	return current
}

func finalize(b *MonthBucket) {
	b.Remaining = decimal.Max(decimal.Zero, b.Expected.Sub(b.PrincipalPaid))
	switch {
	case b.PrincipalPaid.GreaterThanOrEqual(b.Expected):
		b.Status = StatusPaidInFull
	case b.PrincipalPaid.IsPositive():
		b.Status = StatusPartial
	default:
		b.Status = StatusUnpaid
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
