package chit

import (
	"chitfund-engine/internal/domain/installment"
	"chitfund-engine/internal/event"
	"chitfund-engine/internal/infrastructure/monitoring"
	"chitfund-engine/internal/pkg/apperrors"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service interface {
	GetStatement(ctx context.Context, groupID, memberID string) (*installment.Statement, error)

	QuotePayment(ctx context.Context, groupID, memberID string, amount decimal.Decimal) (*installment.AllocationPlan, error)

	SubmitPaymentRequest(ctx context.Context, in SubmitPaymentInput) (*PaymentRequest, error)

	IsOverdue(ctx context.Context, groupID, memberID string) (bool, error)
}

type chitService struct {
	store     LedgerStore
	publisher event.EventPublisher
	now       func() time.Time
	newID     func() string
	logger    *slog.Logger
}

// NewChitService builds the service. Month indices are computed against the
// wall clock in loc; publisher may be nil when events are disabled.
func NewChitService(store LedgerStore, publisher event.EventPublisher, loc *time.Location, logger *slog.Logger) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &chitService{
		store:     store,
		publisher: publisher,
		now:       func() time.Time { return time.Now().In(loc) },
		newID:     uuid.NewString,
		logger:    logger.With("component", "ChitService"),
	}
}

func (s *chitService) GetStatement(ctx context.Context, groupID, memberID string) (*installment.Statement, error) {
	groupID, memberID = strings.TrimSpace(groupID), strings.TrimSpace(memberID)
	if groupID == "" || memberID == "" {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidArgument, apperrors.ErrMissingGroupOrMember)
	}
	logCtx := s.logger.With("groupID", groupID, "memberID", memberID)

	groupRaw, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Group not found")
			return nil, fmt.Errorf("%w: group %s not found", apperrors.ErrNotFound, groupID)
		}
		logCtx.ErrorContext(ctx, "Failed to load group", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load group %s: %w", groupID, err)
	}
	if len(groupRaw) == 0 {
		logCtx.WarnContext(ctx, "Group record is empty, schedule degrades to zero", slog.Any("error", apperrors.ErrMissingGroupOrMember))
	}

	payments, err := s.store.ListPayments(ctx, groupID, memberID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to list payments", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list payments for member %s: %w", memberID, err)
	}

	st := installment.BuildStatement(installment.ParseGroup(groupRaw), payments, groupID, memberID, s.now())
	for _, w := range st.Warnings {
		logCtx.WarnContext(ctx, "Ignoring unusable payment data", slog.Any("error", w))
	}
	logCtx.DebugContext(ctx, "Statement built",
		"currentMonthIndex", st.CurrentMonthIndex,
		"payments", len(payments),
		"totalOverdue", st.Overdue.TotalOverdueRemaining.String(),
	)
	return &st, nil
}

func (s *chitService) QuotePayment(ctx context.Context, groupID, memberID string, amount decimal.Decimal) (*installment.AllocationPlan, error) {
	st, err := s.GetStatement(ctx, groupID, memberID)
	if err != nil {
		monitoring.RecordAllocation("quote", statusLookupFailure)
		return nil, err
	}
	plan, err := st.Plan(amount)
	monitoring.RecordAllocation("quote", allocationStatus(err))
	return plan, err
}

func (s *chitService) SubmitPaymentRequest(ctx context.Context, in SubmitPaymentInput) (req *PaymentRequest, err error) {
	logCtx := s.logger.With("groupID", in.GroupID, "memberID", in.MemberID, "amount", in.Amount.String())

	st, err := s.GetStatement(ctx, in.GroupID, in.MemberID)
	if err != nil {
		monitoring.RecordAllocation("submit", statusLookupFailure)
		return nil, err
	}
	defer func() { monitoring.RecordAllocation("submit", allocationStatus(err)) }()

	plan, err := st.Plan(in.Amount)
	if err != nil {
		logCtx.WarnContext(ctx, "Payment request rejected", slog.Any("error", err))
		return nil, err
	}

	summary, err := plan.Summary()
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to encode allocation summary", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to encode allocation summary: %v", apperrors.ErrInternalServer, err)
	}

	pending := &PaymentRequest{
		ID:                s.newID(),
		GroupID:           strings.TrimSpace(in.GroupID),
		MemberID:          strings.TrimSpace(in.MemberID),
		Amount:            in.Amount,
		MonthIndex:        st.CurrentMonthIndex,
		AllocationSummary: summary,
		UTR:               in.UTR,
		Note:              in.Note,
		AttachmentURL:     in.AttachmentURL,
		RequestedBy:       in.RequestedBy,
		Status:            StatusPending,
		CreatedAt:         s.now(),
	}

	created, err := s.store.CreatePaymentRequest(ctx, pending)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to persist payment request", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save payment request: %w", err)
	}

	s.publishPaymentRequested(ctx, created)
	logCtx.InfoContext(ctx, "Payment request created", "requestID", created.ID, "entries", len(plan.Entries))
	return created, nil
}

func (s *chitService) IsOverdue(ctx context.Context, groupID, memberID string) (bool, error) {
	st, err := s.GetStatement(ctx, groupID, memberID)
	if err != nil {
		return false, err
	}
	return st.IsOverdue(), nil
}

func (s *chitService) publishPaymentRequested(ctx context.Context, req *PaymentRequest) {
	if s.publisher == nil {
		return
	}
	evt := event.PaymentRequestedEvent{
		RequestID:         req.ID,
		GroupID:           req.GroupID,
		MemberID:          req.MemberID,
		Amount:            req.Amount.String(),
		MonthIndex:        req.MonthIndex,
		AllocationSummary: req.AllocationSummary,
		Timestamp:         req.CreatedAt,
	}
	if err := s.publisher.PublishPaymentRequested(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish payment requested event", "requestID", req.ID, slog.Any("error", err))
	}
}

// statusLookupFailure marks requests that failed before any plan was attempted.
const statusLookupFailure = "failure_lookup"

func allocationStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apperrors.ErrInvalidPaymentAmount):
		return "failure_amount"
	case errors.Is(err, apperrors.ErrExceedsCeiling):
		return "failure_ceiling"
	default:
		return "failure_internal"
	}
}
