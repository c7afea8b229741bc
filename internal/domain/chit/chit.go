package chit

import (
	"time"

	"github.com/shopspring/decimal"
)

const StatusPending = "pending"

// PaymentRequest is a member-submitted payment awaiting approval. Once approved
// upstream, its AllocationSummary drives month attribution in later statements.
type PaymentRequest struct {
	ID                string
	GroupID           string
	MemberID          string
	Amount            decimal.Decimal
	MonthIndex        int
	AllocationSummary string
	UTR               string
	Note              string
	AttachmentURL     string
	RequestedBy       string
	Status            string
	CreatedAt         time.Time
}

// Record renders the request in the raw payment-record shape the ledger reader
// understands, so stored requests round-trip through NormalizeLedger.
func (r *PaymentRequest) Record() map[string]any {
	rec := map[string]any{
		"_id":               r.ID,
		"groupId":           r.GroupID,
		"memberId":          r.MemberID,
		"amount":            r.Amount.String(),
		"monthIndex":        r.MonthIndex,
		"status":            r.Status,
		"allocationSummary": r.AllocationSummary,
		"createdAt":         r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.UTR != "" {
		rec["utr"] = r.UTR
	}
	if r.Note != "" {
		rec["note"] = r.Note
	}
	if r.AttachmentURL != "" {
		rec["attachmentUrl"] = r.AttachmentURL
	}
	if r.RequestedBy != "" {
		rec["requestedBy"] = r.RequestedBy
	}
	return rec
}

type Membership struct {
	GroupID   string
	MemberID  string
	IsOverdue bool
	Active    bool
	UpdatedAt time.Time
}

type SubmitPaymentInput struct {
	GroupID       string
	MemberID      string
	Amount        decimal.Decimal
	UTR           string
	Note          string
	AttachmentURL string
	// RequestedBy is the authenticated subject that filed the request, empty when auth is off.
	RequestedBy string
}
