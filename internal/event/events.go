package event

import "time"

type PaymentRequestedEvent struct {
	RequestID         string    `json:"requestId"`
	GroupID           string    `json:"groupId"`
	MemberID          string    `json:"memberId"`
	Amount            string    `json:"amount"`
	MonthIndex        int       `json:"monthIndex"`
	AllocationSummary string    `json:"allocationSummary"`
	Timestamp         time.Time `json:"timestamp"`
}

type MemberOverdueChangedEvent struct {
	GroupID       string    `json:"groupId"`
	MemberID      string    `json:"memberId"`
	NewStatus     bool      `json:"newStatus"`
	OldStatus     bool      `json:"oldStatus"`
	TotalOverdue  string    `json:"totalOverdue"`
	MaxPayableNow string    `json:"maxPayableNow"`
	Timestamp     time.Time `json:"timestamp"`
}
