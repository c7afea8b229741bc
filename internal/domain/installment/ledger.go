package installment

import (
	"chitfund-engine/internal/pkg/apperrors"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const approvedStatus = "approved"

var (
	recordIDKeys   = []string{"_id", "id"}
	memberKeys     = []string{"memberId", "member", "userId", "user"}
	groupKeys      = []string{"groupId", "chitId", "group", "chit"}
	amountKeys     = []string{"amount", "amt"}
	dateKeys       = []string{"date", "paidAt", "paymentDate", "createdAt"}
	allocationKeys = []string{"allocationDetails", "allocation", "allocated", "allocationSummary"}
	wrapperKeys    = []string{"entries", "allocations", "details", "months"}
	envelopeKeys   = []string{"payments", "data", "records", "items"}
)

type AllocationDetail struct {
	MonthIndex    int             `json:"monthIndex"`
	PrincipalPaid decimal.Decimal `json:"principalPaid"`
	PenaltyPaid   decimal.Decimal `json:"penaltyPaid"`
}

// PaymentRecord is the canonical form of one contribution. MonthIndex is zero when the
// source named no month; AllocationDetails is nil when the source carried no usable
// allocation.
type PaymentRecord struct {
	ID                string
	MemberID          string
	GroupID           string
	Amount            decimal.Decimal
	Date              time.Time
	MonthIndex        int
	IsApproved        bool
	AllocationDetails []AllocationDetail
	UTR               string
	Note              string
}

type Ledger struct {
	Records  []PaymentRecord
	Warnings []error
}

func (l Ledger) Approved() []PaymentRecord {
	out := make([]PaymentRecord, 0, len(l.Records))
	for _, r := range l.Records {
		if r.IsApproved {
			out = append(out, r)
		}
	}
	return out
}

func (l Ledger) Pending() []PaymentRecord {
	out := make([]PaymentRecord, 0)
	for _, r := range l.Records {
		if !r.IsApproved {
			out = append(out, r)
		}
	}
	return out
}

// NormalizeLedger converts raw store records into the canonical ledger for one member of
// one group. Shape anomalies never fail the call; unparsable allocation metadata is
// reported in Warnings and the payment falls back to single-month attribution.
func NormalizeLedger(raw []map[string]any, groupID, memberID string) Ledger {
	ledger := Ledger{Records: make([]PaymentRecord, 0, len(raw))}
	positions := make(map[string]int, len(raw))

	for _, r := range raw {
		if r == nil {
			continue
		}

		owner := firstRef(r, memberKeys...)
		if owner != "" && memberID != "" && owner != memberID {
			continue
		}
		if owner == "" {
			owner = memberID
		}

		group := firstRef(r, groupKeys...)
		if group != "" && groupID != "" && group != groupID {
			continue
		}
		if group == "" {
			group = groupID
		}

		rec, err := normalizeRecord(r)
		rec.MemberID = owner
		rec.GroupID = group
		if err != nil {
			ledger.Warnings = append(ledger.Warnings, fmt.Errorf("payment %q: %w", rec.ID, err))
		}

		if rec.ID == "" {
			ledger.Records = append(ledger.Records, rec)
			continue
		}
		if pos, seen := positions[rec.ID]; seen {
			if rec.IsApproved && !ledger.Records[pos].IsApproved {
				ledger.Records[pos] = rec
			}
			continue
		}
		positions[rec.ID] = len(ledger.Records)
		ledger.Records = append(ledger.Records, rec)
	}
	return ledger
}

func normalizeRecord(r map[string]any) (PaymentRecord, error) {
	rec := PaymentRecord{
		ID:         firstRef(r, recordIDKeys...),
		Amount:     decimal.Zero,
		IsApproved: isApproved(r),
		UTR:        stringFromAny(r["utr"]),
		Note:       stringFromAny(r["note"]),
	}

	if v, ok := firstPresent(r, amountKeys...); ok {
		rec.Amount = nonNegative(v)
	}
	for _, k := range dateKeys {
		if t, ok := ParseTime(r[k]); ok {
			rec.Date = t
			break
		}
	}
	if m, ok := intFromAny(r["monthIndex"]); ok && m >= 0 {
		rec.MonthIndex = oneBased(m)
	}

	details, err := extractAllocation(r)
	rec.AllocationDetails = details
	return rec, err
}

func isApproved(r map[string]any) bool {
	for _, k := range []string{"status", "state"} {
		if strings.EqualFold(stringFromAny(r[k]), approvedStatus) {
			return true
		}
	}
	if truthy(r["verified"]) {
		return true
	}
	return hasApprovalTimestamp(r["approvedAt"])
}

// hasApprovalTimestamp treats nil, false, zero and blank values as absent.
func hasApprovalTimestamp(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return false
		}
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
		return s != "null"
	default:
		_, ok := ParseTime(v)
		return ok
	}
}

func oneBased(m int) int {
	if m == 0 {
		return 1
	}
	return m
}

func extractAllocation(r map[string]any) ([]AllocationDetail, error) {
	sources := []map[string]any{r}
	if meta, ok := asObject(r["rawMeta"]); ok {
		sources = append(sources, meta)
	}

	var firstErr error
	for _, src := range sources {
		for _, key := range allocationKeys {
			v, ok := src[key]
			if !ok || v == nil {
				continue
			}
			details, err := parseAllocation(v)
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", key, err)
				}
				continue
			}
			if len(details) > 0 {
				return details, nil
			}
		}
	}
	return nil, firstErr
}

func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(t), &m); err != nil {
			return nil, false
		}
		return m, m != nil
	default:
		return nil, false
	}
}

func parseAllocation(v any) ([]AllocationDetail, error) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedAllocationData, err)
		}
		return parseAllocation(decoded)
	case []any:
		details := make([]AllocationDetail, 0, len(t))
		for _, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if d, ok := parseEntry(m); ok {
				details = append(details, d)
			}
		}
		return details, nil
	case []map[string]any:
		details := make([]AllocationDetail, 0, len(t))
		for _, m := range t {
			if d, ok := parseEntry(m); ok {
				details = append(details, d)
			}
		}
		return details, nil
	case map[string]any:
		for _, k := range wrapperKeys {
			if inner, ok := t[k]; ok && inner != nil {
				return parseAllocation(inner)
			}
		}
		if d, ok := parseEntry(t); ok {
			return []AllocationDetail{d}, nil
		}
		return nil, nil
	default:
		return nil, nil
	}
}

// parseEntry reads one allocation entry. Plan entries (apply/due/penalty) are split
// principal first; the penalty field of a plan entry is the amount owed, not paid.
func parseEntry(m map[string]any) (AllocationDetail, bool) {
	mv, ok := firstPresent(m, "monthIndex", "month")
	if !ok {
		return AllocationDetail{}, false
	}
	month, ok := intFromAny(mv)
	if !ok || month < 0 {
		return AllocationDetail{}, false
	}

	d := AllocationDetail{MonthIndex: oneBased(month), PrincipalPaid: decimal.Zero, PenaltyPaid: decimal.Zero}
	switch {
	case has(m, "principalPaid", "principal"):
		p, _ := firstPresent(m, "principalPaid", "principal")
		d.PrincipalPaid = nonNegative(p)
		if pen, ok := firstPresent(m, "penaltyPaid", "penaltyPortion"); ok {
			d.PenaltyPaid = nonNegative(pen)
		}
	case has(m, "apply"):
		apply := nonNegative(m["apply"])
		principal := apply
		if due, ok := m["due"]; ok && due != nil {
			principal = decimal.Min(apply, nonNegative(due))
		}
		d.PrincipalPaid = principal
		d.PenaltyPaid = apply.Sub(principal)
	case has(m, "amount"):
		d.PrincipalPaid = nonNegative(m["amount"])
	}

	if d.PrincipalPaid.IsZero() && d.PenaltyPaid.IsZero() {
		return AllocationDetail{}, false
	}
	return d, true
}

func has(m map[string]any, keys ...string) bool {
	_, ok := firstPresent(m, keys...)
	return ok
}

// UnwrapRecords accepts the listing shapes the store returns: a bare array, or an object
// wrapping the array under payments, data, records or items (possibly nested).
func UnwrapRecords(v any) []map[string]any {
	switch t := v.(type) {
	case []map[string]any:
		return t
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		for _, k := range envelopeKeys {
			if inner, ok := t[k]; ok && inner != nil {
				return UnwrapRecords(inner)
			}
		}
	}
	return []map[string]any{}
}
