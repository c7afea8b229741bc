package batch

import (
	"chitfund-engine/internal/domain/chit"
	"chitfund-engine/internal/event"
	"chitfund-engine/internal/infrastructure/monitoring"
	"chitfund-engine/internal/pkg/apperrors"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const maxConcurrentMembers = 8

type UpdateOverdueStatusJob struct {
	memberships chit.MembershipRepository
	service     chit.Service
	publisher   event.EventPublisher
	logger      *slog.Logger
}

func NewUpdateOverdueStatusJob(
	memberships chit.MembershipRepository,
	svc chit.Service,
	publisher event.EventPublisher,
	logger *slog.Logger,
) *UpdateOverdueStatusJob {
	if memberships == nil || svc == nil || logger == nil {
		panic("UpdateOverdueStatusJob dependencies cannot be nil")
	}
	return &UpdateOverdueStatusJob{
		memberships: memberships,
		service:     svc,
		publisher:   publisher,
		logger:      logger.With("job", "UpdateOverdueStatus"),
	}
}

func (j *UpdateOverdueStatusJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting membership overdue status update job.")

	active, err := j.memberships.ListActiveMemberships(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list active memberships, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list active memberships: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched active memberships.", slog.Int("count", len(active)))

	if len(active) == 0 {
		monitoring.SetOverdueMembers(0)
		j.logger.InfoContext(ctx, "No active memberships found to process.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var wg sync.WaitGroup
	var processed, overdue, toOverdue, toCurrent, errorCount atomic.Int32
	sem := make(chan struct{}, maxConcurrentMembers)

	for _, m := range active {
		wg.Add(1)
		go func(m chit.Membership) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					j.logger.ErrorContext(ctx, "Recovered panic while processing membership",
						slog.String("groupID", m.GroupID), slog.String("memberID", m.MemberID), slog.Any("panic", r))
					errorCount.Add(1)
				}
			}()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errorCount.Add(1)
				return
			}

			logCtx := j.logger.With(slog.String("groupID", m.GroupID), slog.String("memberID", m.MemberID))

			st, err := j.service.GetStatement(ctx, m.GroupID, m.MemberID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					logCtx.WarnContext(ctx, "Group not found for active membership", slog.Any("error", err))
				} else {
					logCtx.ErrorContext(ctx, "Failed to build member statement", slog.Any("error", err))
					errorCount.Add(1)
				}
				return
			}

			isOverdue := st.IsOverdue()
			if isOverdue {
				overdue.Add(1)
			}

			if m.IsOverdue == isOverdue {
				logCtx.DebugContext(ctx, "Overdue status already correct.", slog.Bool("status", isOverdue))
				processed.Add(1)
				return
			}

			logCtx.InfoContext(ctx, "Updating membership overdue status.", slog.Bool("new_status", isOverdue))
			if err := j.memberships.SetOverdueStatus(ctx, m.GroupID, m.MemberID, isOverdue); err != nil {
				logCtx.ErrorContext(ctx, "Failed to update overdue status", slog.Any("error", err))
				errorCount.Add(1)
				return
			}
			if isOverdue {
				toOverdue.Add(1)
			} else {
				toCurrent.Add(1)
			}
			processed.Add(1)

			if j.publisher == nil {
				return
			}
			evt := event.MemberOverdueChangedEvent{
				GroupID:       m.GroupID,
				MemberID:      m.MemberID,
				NewStatus:     isOverdue,
				OldStatus:     m.IsOverdue,
				TotalOverdue:  st.Overdue.TotalOverdueRemaining.StringFixed(2),
				MaxPayableNow: st.Overdue.MaxPayableNow.StringFixed(2),
				Timestamp:     time.Now(),
			}
			if err := j.publisher.PublishMemberOverdueChanged(ctx, evt); err != nil {
				logCtx.ErrorContext(ctx, "Failed to publish overdue change event", slog.Any("error", err))
			}
		}(m)
	}

	wg.Wait()
	monitoring.SetOverdueMembers(int(overdue.Load()))

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("total_active_memberships", len(active)),
		slog.Int("memberships_processed", int(processed.Load())),
		slog.Int("memberships_overdue", int(overdue.Load())),
		slog.Int("updated_to_overdue", int(toOverdue.Load())),
		slog.Int("updated_to_current", int(toCurrent.Load())),
		slog.Int("errors_encountered", int(errorCount.Load())),
	)
	if n := errorCount.Load(); n > 0 {
		summaryLog.WarnContext(ctx, "Membership overdue status update job finished with errors.")
		return fmt.Errorf("job completed with %d errors", n)
	}
	summaryLog.InfoContext(ctx, "Membership overdue status update job finished successfully.")
	return nil
}
