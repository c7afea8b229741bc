package installment

import (
	"chitfund-engine/internal/pkg/apperrors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLedgerDuplicateKeepsApproved(t *testing.T) {
	raw := []map[string]any{
		{"_id": "p1", "memberId": "m1", "amount": 3000, "status": "pending"},
		{"_id": "p2", "memberId": "m1", "amount": 1000, "status": "pending"},
		{"_id": "p1", "memberId": "m1", "amount": 3000, "status": "Approved"},
	}

	ledger := NormalizeLedger(raw, "g1", "m1")

	require.Len(t, ledger.Records, 2)
	assert.Equal(t, "p1", ledger.Records[0].ID)
	assert.True(t, ledger.Records[0].IsApproved)
	assert.Equal(t, "p2", ledger.Records[1].ID)
	assert.Len(t, ledger.Approved(), 1)
	assert.Len(t, ledger.Pending(), 1)
}

func TestNormalizeLedgerDuplicateDoesNotDowngrade(t *testing.T) {
	raw := []map[string]any{
		{"id": "p1", "amount": 3000, "verified": true},
		{"id": "p1", "amount": 3000, "status": "pending"},
	}

	ledger := NormalizeLedger(raw, "g1", "m1")

	require.Len(t, ledger.Records, 1)
	assert.True(t, ledger.Records[0].IsApproved)
}

func TestNormalizeLedgerApprovalSignals(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]any
		want   bool
	}{
		{"status approved", map[string]any{"status": "approved"}, true},
		{"state approved uppercase", map[string]any{"state": "APPROVED"}, true},
		{"verified flag", map[string]any{"verified": true}, true},
		{"verified string", map[string]any{"verified": "true"}, true},
		{"approval timestamp", map[string]any{"approvedAt": "2024-02-02T10:00:00Z"}, true},
		{"empty approval timestamp", map[string]any{"approvedAt": ""}, false},
		{"false approval timestamp", map[string]any{"approvedAt": false}, false},
		{"zero approval timestamp", map[string]any{"approvedAt": 0}, false},
		{"false string approval timestamp", map[string]any{"approvedAt": "false"}, false},
		{"null string approval timestamp", map[string]any{"approvedAt": "null"}, false},
		{"epoch approval timestamp", map[string]any{"approvedAt": float64(1706868000000)}, true},
		{"pending", map[string]any{"status": "pending"}, false},
		{"rejected", map[string]any{"status": "rejected", "verified": false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.record["amount"] = 100
			ledger := NormalizeLedger([]map[string]any{tt.record}, "g1", "m1")
			require.Len(t, ledger.Records, 1)
			assert.Equal(t, tt.want, ledger.Records[0].IsApproved)
		})
	}
}

func TestNormalizeLedgerResolvesMemberAndGroup(t *testing.T) {
	raw := []map[string]any{
		{"_id": "a", "member": map[string]any{"_id": "m1", "name": "Asha"}, "amount": 100},
		{"_id": "b", "userId": map[string]any{"id": "m2"}, "amount": 200},
		{"_id": "c", "amt": "300"},
		{"_id": "d", "memberId": "m1", "groupId": "g2", "amount": 400},
		{"_id": "e", "memberId": "m1", "chit": map[string]any{"_id": "g1"}, "amount": 500},
	}

	ledger := NormalizeLedger(raw, "g1", "m1")

	ids := make([]string, 0, len(ledger.Records))
	for _, r := range ledger.Records {
		ids = append(ids, r.ID)
		assert.Equal(t, "m1", r.MemberID)
		assert.Equal(t, "g1", r.GroupID)
	}
	assert.Equal(t, []string{"a", "c", "e"}, ids)
	assertMoney(t, "300", ledger.Records[1].Amount)
}

func TestNormalizeLedgerAmountCoercion(t *testing.T) {
	raw := []map[string]any{
		{"amount": "-50"},
		{"amount": "1,250.50"},
		{"amount": "n/a"},
	}

	ledger := NormalizeLedger(raw, "g1", "m1")

	require.Len(t, ledger.Records, 3)
	assertMoney(t, "0", ledger.Records[0].Amount)
	assertMoney(t, "1250.5", ledger.Records[1].Amount)
	assertMoney(t, "0", ledger.Records[2].Amount)
}

func TestNormalizeLedgerAllocationSources(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]any
		want   []AllocationDetail
	}{
		{
			name: "direct array",
			record: map[string]any{"allocationDetails": []any{
				map[string]any{"monthIndex": 2, "principalPaid": 1000, "penaltyPaid": 20},
			}},
			want: []AllocationDetail{{MonthIndex: 2, PrincipalPaid: money("1000"), PenaltyPaid: money("20")}},
		},
		{
			name:   "json string",
			record: map[string]any{"allocationSummary": `[{"month":3,"principal":"500"}]`},
			want:   []AllocationDetail{{MonthIndex: 3, PrincipalPaid: money("500"), PenaltyPaid: money("0")}},
		},
		{
			name: "nested raw meta",
			record: map[string]any{"rawMeta": map[string]any{
				"allocation": map[string]any{"entries": []any{
					map[string]any{"monthIndex": 1, "amount": 700},
				}},
			}},
			want: []AllocationDetail{{MonthIndex: 1, PrincipalPaid: money("700"), PenaltyPaid: money("0")}},
		},
		{
			name:   "raw meta as json string",
			record: map[string]any{"rawMeta": `{"allocated":[{"monthIndex":4,"principalPaid":250}]}`},
			want:   []AllocationDetail{{MonthIndex: 4, PrincipalPaid: money("250"), PenaltyPaid: money("0")}},
		},
		{
			name: "zero based month index",
			record: map[string]any{"allocation": []any{
				map[string]any{"monthIndex": 0, "principalPaid": 100},
			}},
			want: []AllocationDetail{{MonthIndex: 1, PrincipalPaid: money("100"), PenaltyPaid: money("0")}},
		},
		{
			name: "plan entry split principal first",
			record: map[string]any{"allocationSummary": `{"entries":[` +
				`{"monthIndex":1,"due":"5000","penalty":"306","apply":"5200"},` +
				`{"monthIndex":2,"due":"5000","penalty":"202","apply":"3000"}]}`},
			want: []AllocationDetail{
				{MonthIndex: 1, PrincipalPaid: money("5000"), PenaltyPaid: money("200")},
				{MonthIndex: 2, PrincipalPaid: money("3000"), PenaltyPaid: money("0")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.record["_id"] = "p1"
			tt.record["amount"] = 1000
			ledger := NormalizeLedger([]map[string]any{tt.record}, "g1", "m1")

			require.Len(t, ledger.Records, 1)
			assert.Empty(t, ledger.Warnings)
			got := ledger.Records[0].AllocationDetails
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].MonthIndex, got[i].MonthIndex)
				assertMoney(t, tt.want[i].PrincipalPaid.String(), got[i].PrincipalPaid)
				assertMoney(t, tt.want[i].PenaltyPaid.String(), got[i].PenaltyPaid)
			}
		})
	}
}

func TestNormalizeLedgerMalformedAllocationFallsBack(t *testing.T) {
	raw := []map[string]any{
		{"_id": "p1", "amount": 3000, "monthIndex": 2, "status": "approved", "allocationSummary": "{not json"},
	}

	ledger := NormalizeLedger(raw, "g1", "m1")

	require.Len(t, ledger.Records, 1)
	assert.Nil(t, ledger.Records[0].AllocationDetails)
	assert.Equal(t, 2, ledger.Records[0].MonthIndex)
	require.Len(t, ledger.Warnings, 1)
	assert.ErrorIs(t, ledger.Warnings[0], apperrors.ErrMalformedAllocationData)
}

func TestNormalizeLedgerLaterSourceRecoversFromMalformed(t *testing.T) {
	raw := []map[string]any{{
		"_id":               "p1",
		"amount":            500,
		"allocationSummary": "{broken",
		"rawMeta":           map[string]any{"allocationDetails": []any{map[string]any{"monthIndex": 3, "principalPaid": 500}}},
	}}

	ledger := NormalizeLedger(raw, "g1", "m1")

	require.Len(t, ledger.Records[0].AllocationDetails, 1)
	assert.Equal(t, 3, ledger.Records[0].AllocationDetails[0].MonthIndex)
	assert.Empty(t, ledger.Warnings)
}

func TestNormalizeLedgerEmptyAllocationIsAbsent(t *testing.T) {
	raw := []map[string]any{
		{"_id": "p1", "amount": 500, "allocation": []any{}},
		{"_id": "p2", "amount": 500, "allocation": []any{map[string]any{"monthIndex": 2, "principalPaid": 0}}},
	}

	ledger := NormalizeLedger(raw, "g1", "m1")

	assert.Nil(t, ledger.Records[0].AllocationDetails)
	assert.Nil(t, ledger.Records[1].AllocationDetails)
}

func TestUnwrapRecords(t *testing.T) {
	record := map[string]any{"_id": "p1"}
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"bare array", []any{record, "junk"}, 1},
		{"payments envelope", map[string]any{"payments": []any{record, record}}, 2},
		{"data envelope", map[string]any{"data": []any{record}}, 1},
		{"nested envelope", map[string]any{"data": map[string]any{"payments": []any{record}}}, 1},
		{"unknown object", map[string]any{"message": "ok"}, 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnwrapRecords(tt.in)
			assert.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}
