package postgres

import (
	"chitfund-engine/internal/domain/chit"
	"chitfund-engine/internal/infrastructure/monitoring"
	"chitfund-engine/internal/pkg/apperrors"
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	listActiveMembershipsQuery = `SELECT group_id, member_id, is_overdue, active, updated_at FROM chit_memberships WHERE active = TRUE ORDER BY group_id, member_id`

	setOverdueStatusQuery = `UPDATE chit_memberships SET is_overdue = $1, updated_at = NOW() WHERE group_id = $2 AND member_id = $3`
)

type MembershipRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ chit.MembershipRepository = (*MembershipRepository)(nil)

func NewMembershipRepository(db DBPool, logger *slog.Logger) *MembershipRepository {
	if db == nil {
		panic("DBPool cannot be nil for MembershipRepository")
	}
	return &MembershipRepository{db: db, logger: logger.With("component", "MembershipRepository")}
}

func (r *MembershipRepository) ListActiveMemberships(ctx context.Context) ([]chit.Membership, error) {
	logCtx := r.logger.With(slog.String("operation", "ListActiveMemberships"))
	logCtx.DebugContext(ctx, "Attempting to list active memberships")
	startTime := time.Now()

	rows, err := r.db.Query(ctx, listActiveMembershipsQuery)
	if err != nil {
		monitoring.RecordDBQuery("ListActiveMemberships", "error", time.Since(startTime))
		return nil, translateDBError(err, logCtx)
	}
	defer rows.Close()

	memberships := make([]chit.Membership, 0)
	for rows.Next() {
		var m chit.Membership
		if err := rows.Scan(&m.GroupID, &m.MemberID, &m.IsOverdue, &m.Active, &m.UpdatedAt); err != nil {
			monitoring.RecordDBQuery("ListActiveMemberships", "error", time.Since(startTime))
			logCtx.ErrorContext(ctx, "Failed to scan membership row", slog.Any("error", err))
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		memberships = append(memberships, m)
	}
	err = rows.Err()
	monitoring.RecordDBQuery("ListActiveMemberships", queryStatus(err), time.Since(startTime))
	if err != nil {
		logCtx.ErrorContext(ctx, "Error iterating membership rows", slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	logCtx.InfoContext(ctx, "Active memberships listed", "count", len(memberships))
	return memberships, nil
}

func (r *MembershipRepository) SetOverdueStatus(ctx context.Context, groupID, memberID string, overdue bool) error {
	logCtx := r.logger.With(slog.String("operation", "SetOverdueStatus"), slog.String("groupID", groupID), slog.String("memberID", memberID))
	startTime := time.Now()

	tag, err := r.db.Exec(ctx, setOverdueStatusQuery, overdue, groupID, memberID)
	monitoring.RecordDBQuery("SetOverdueStatus", queryStatus(err), time.Since(startTime))
	if err != nil {
		return translateDBError(err, logCtx)
	}
	if tag.RowsAffected() == 0 {
		logCtx.WarnContext(ctx, "Membership not found for overdue update")
		return fmt.Errorf("%w: membership %s/%s", apperrors.ErrNotFound, groupID, memberID)
	}

	logCtx.InfoContext(ctx, "Overdue status updated", "isOverdue", overdue)
	return nil
}
