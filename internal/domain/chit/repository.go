package chit

import "context"

// LedgerStore reads raw group and payment records. Records are loosely shaped
// maps; the installment package is responsible for interpreting them.
type LedgerStore interface {
	GetGroup(ctx context.Context, groupID string) (map[string]any, error)

	ListPayments(ctx context.Context, groupID, memberID string) ([]map[string]any, error)

	CreatePaymentRequest(ctx context.Context, req *PaymentRequest) (*PaymentRequest, error)
}

type MembershipRepository interface {
	ListActiveMemberships(ctx context.Context) ([]Membership, error)

	SetOverdueStatus(ctx context.Context, groupID, memberID string, overdue bool) error
}
