package postgres

import (
	"chitfund-engine/internal/domain/chit"
	"chitfund-engine/internal/infrastructure/monitoring"
	"chitfund-engine/internal/pkg/apperrors"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	getGroupQuery = `SELECT attributes FROM chit_groups WHERE id = $1`

	listPaymentsQuery = `SELECT id, payload FROM chit_payments WHERE group_id = $1 AND member_id = $2 ORDER BY created_at, id`

	insertPaymentRequestQuery = `INSERT INTO chit_payments (id, group_id, member_id, payload, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
)

// ChitRepository stores groups and payment records as jsonb documents, keeping
// the loose upstream record shape intact for the ledger reader.
type ChitRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ chit.LedgerStore = (*ChitRepository)(nil)

func NewChitRepository(db DBPool, logger *slog.Logger) *ChitRepository {
	if db == nil {
		panic("DBPool cannot be nil for ChitRepository")
	}
	return &ChitRepository{db: db, logger: logger.With("component", "ChitRepository")}
}

func (r *ChitRepository) GetGroup(ctx context.Context, groupID string) (map[string]any, error) {
	logCtx := r.logger.With(slog.String("operation", "GetGroup"), slog.String("groupID", groupID))
	startTime := time.Now()

	var raw []byte
	err := r.db.QueryRow(ctx, getGroupQuery, groupID).Scan(&raw)
	monitoring.RecordDBQuery("GetGroup", queryStatus(err), time.Since(startTime))
	if err != nil {
		translated := translateDBError(err, logCtx)
		if errors.Is(translated, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Group not found")
		}
		return nil, translated
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		logCtx.ErrorContext(ctx, "Stored group attributes are not valid JSON", slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = groupID
	}
	return doc, nil
}

func (r *ChitRepository) ListPayments(ctx context.Context, groupID, memberID string) ([]map[string]any, error) {
	logCtx := r.logger.With(slog.String("operation", "ListPayments"), slog.String("groupID", groupID), slog.String("memberID", memberID))
	startTime := time.Now()

	rows, err := r.db.Query(ctx, listPaymentsQuery, groupID, memberID)
	if err != nil {
		monitoring.RecordDBQuery("ListPayments", "error", time.Since(startTime))
		return nil, translateDBError(err, logCtx)
	}
	defer rows.Close()

	records := make([]map[string]any, 0)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			monitoring.RecordDBQuery("ListPayments", "error", time.Since(startTime))
			logCtx.ErrorContext(ctx, "Failed to scan payment row", slog.Any("error", err))
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		doc, err := decodeDocument(raw)
		if err != nil {
			logCtx.WarnContext(ctx, "Skipping payment with undecodable payload", "paymentID", id, slog.Any("error", err))
			continue
		}
		setDefault(doc, "_id", id)
		setDefault(doc, "groupId", groupID)
		setDefault(doc, "memberId", memberID)
		records = append(records, doc)
	}
	err = rows.Err()
	monitoring.RecordDBQuery("ListPayments", queryStatus(err), time.Since(startTime))
	if err != nil {
		logCtx.ErrorContext(ctx, "Error iterating payment rows", slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	logCtx.DebugContext(ctx, "Payments loaded", "count", len(records))
	return records, nil
}

func (r *ChitRepository) CreatePaymentRequest(ctx context.Context, req *chit.PaymentRequest) (*chit.PaymentRequest, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: payment request cannot be nil", apperrors.ErrInvalidArgument)
	}
	logCtx := r.logger.With(slog.String("operation", "CreatePaymentRequest"), slog.String("requestID", req.ID))

	payload, err := json.Marshal(req.Record())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode payment request: %w", apperrors.ErrInternalServer, err)
	}

	startTime := time.Now()
	var createdAt time.Time
	err = r.db.QueryRow(ctx, insertPaymentRequestQuery, req.ID, req.GroupID, req.MemberID, payload, req.CreatedAt).Scan(&createdAt)
	monitoring.RecordDBQuery("CreatePaymentRequest", queryStatus(err), time.Since(startTime))
	if err != nil {
		return nil, translateDBError(err, logCtx)
	}

	created := *req
	created.CreatedAt = createdAt
	logCtx.InfoContext(ctx, "Payment request stored", "groupID", req.GroupID, "memberID", req.MemberID)
	return &created, nil
}

func setDefault(doc map[string]any, key string, value any) {
	if v, ok := doc[key]; !ok || v == nil || v == "" {
		doc[key] = value
	}
}
