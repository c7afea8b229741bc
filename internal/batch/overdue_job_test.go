package batch_test

import (
	"chitfund-engine/internal/batch"
	"chitfund-engine/internal/domain/chit"
	"chitfund-engine/internal/domain/installment"
	"chitfund-engine/internal/event"
	"chitfund-engine/internal/infrastructure/monitoring"
	"chitfund-engine/internal/pkg/apperrors"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) ListActiveMemberships(ctx context.Context) ([]chit.Membership, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]chit.Membership); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMembershipRepository) SetOverdueStatus(ctx context.Context, groupID, memberID string, overdue bool) error {
	return m.Called(ctx, groupID, memberID, overdue).Error(0)
}

type MockChitService struct {
	mock.Mock
}

func (m *MockChitService) GetStatement(ctx context.Context, groupID, memberID string) (*installment.Statement, error) {
	args := m.Called(ctx, groupID, memberID)
	if st, ok := args.Get(0).(*installment.Statement); ok {
		return st, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChitService) QuotePayment(ctx context.Context, groupID, memberID string, amount decimal.Decimal) (*installment.AllocationPlan, error) {
	args := m.Called(ctx, groupID, memberID, amount)
	if plan, ok := args.Get(0).(*installment.AllocationPlan); ok {
		return plan, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChitService) SubmitPaymentRequest(ctx context.Context, in chit.SubmitPaymentInput) (*chit.PaymentRequest, error) {
	args := m.Called(ctx, in)
	if req, ok := args.Get(0).(*chit.PaymentRequest); ok {
		return req, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChitService) IsOverdue(ctx context.Context, groupID, memberID string) (bool, error) {
	args := m.Called(ctx, groupID, memberID)
	return args.Bool(0), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishPaymentRequested(ctx context.Context, evt event.PaymentRequestedEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockEventPublisher) PublishMemberOverdueChanged(ctx context.Context, evt event.MemberOverdueChangedEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func statementAt(now time.Time) *installment.Statement {
	group := installment.ParseGroup(map[string]any{
		"monthlyInstallment": 5000,
		"totalMonths":        20,
		"startDate":          "2024-01-01",
		"penaltyPercent":     2,
	})
	st := installment.BuildStatement(group, nil, "g1", "m", now)
	return &st
}

var (
	overdueStatement = statementAt(time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC))
	currentStatement = statementAt(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
)

func TestUpdateOverdueStatusJobRun(t *testing.T) {
	ctx := context.Background()

	t.Run("updates changed memberships and publishes events", func(t *testing.T) {
		repo := new(MockMembershipRepository)
		svc := new(MockChitService)
		pub := new(MockEventPublisher)

		repo.On("ListActiveMemberships", ctx).Return([]chit.Membership{
			{GroupID: "g1", MemberID: "m1", IsOverdue: false, Active: true},
			{GroupID: "g1", MemberID: "m2", IsOverdue: true, Active: true},
			{GroupID: "g1", MemberID: "m3", IsOverdue: true, Active: true},
			{GroupID: "gone", MemberID: "m4", IsOverdue: false, Active: true},
		}, nil)
		svc.On("GetStatement", ctx, "g1", "m1").Return(overdueStatement, nil)
		svc.On("GetStatement", ctx, "g1", "m2").Return(overdueStatement, nil)
		svc.On("GetStatement", ctx, "g1", "m3").Return(currentStatement, nil)
		svc.On("GetStatement", ctx, "gone", "m4").Return(nil, apperrors.ErrNotFound)
		repo.On("SetOverdueStatus", ctx, "g1", "m1", true).Return(nil).Once()
		repo.On("SetOverdueStatus", ctx, "g1", "m3", false).Return(nil).Once()
		pub.On("PublishMemberOverdueChanged", ctx, mock.MatchedBy(func(e event.MemberOverdueChangedEvent) bool {
			return e.MemberID == "m1" && e.NewStatus && !e.OldStatus && e.TotalOverdue == "15000.00" && e.MaxPayableNow == "20608.00"
		})).Return(nil).Once()
		pub.On("PublishMemberOverdueChanged", ctx, mock.MatchedBy(func(e event.MemberOverdueChangedEvent) bool {
			return e.MemberID == "m3" && !e.NewStatus && e.OldStatus
		})).Return(errors.New("broker down")).Once()

		job := batch.NewUpdateOverdueStatusJob(repo, svc, pub, logger)
		err := job.Run(ctx)

		assert.NoError(t, err)
		assert.Equal(t, float64(2), testutil.ToFloat64(monitoring.Business.OverdueMembers))
		repo.AssertExpectations(t)
		svc.AssertExpectations(t)
		pub.AssertExpectations(t)
		repo.AssertNotCalled(t, "SetOverdueStatus", ctx, "g1", "m2", mock.Anything)
	})

	t.Run("update failure is reported", func(t *testing.T) {
		repo := new(MockMembershipRepository)
		svc := new(MockChitService)

		repo.On("ListActiveMemberships", ctx).Return([]chit.Membership{{GroupID: "g1", MemberID: "m1"}}, nil)
		svc.On("GetStatement", ctx, "g1", "m1").Return(overdueStatement, nil)
		repo.On("SetOverdueStatus", ctx, "g1", "m1", true).Return(apperrors.ErrDatabase)

		err := batch.NewUpdateOverdueStatusJob(repo, svc, nil, logger).Run(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "job completed with 1 errors")
	})

	t.Run("statement failure is reported", func(t *testing.T) {
		repo := new(MockMembershipRepository)
		svc := new(MockChitService)

		repo.On("ListActiveMemberships", ctx).Return([]chit.Membership{{GroupID: "g1", MemberID: "m1"}}, nil)
		svc.On("GetStatement", ctx, "g1", "m1").Return(nil, apperrors.ErrUpstream)

		err := batch.NewUpdateOverdueStatusJob(repo, svc, nil, logger).Run(ctx)

		assert.Error(t, err)
		repo.AssertNotCalled(t, "SetOverdueStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("panicking member does not stop the run", func(t *testing.T) {
		repo := new(MockMembershipRepository)
		svc := new(MockChitService)

		repo.On("ListActiveMemberships", ctx).Return([]chit.Membership{
			{GroupID: "bad", MemberID: "m1"},
			{GroupID: "g1", MemberID: "m2", IsOverdue: true},
		}, nil)
		svc.On("GetStatement", ctx, "bad", "m1").Run(func(mock.Arguments) {
			panic("makeslice: len out of range")
		}).Return(nil, nil)
		svc.On("GetStatement", ctx, "g1", "m2").Return(overdueStatement, nil)

		var err error
		require.NotPanics(t, func() {
			err = batch.NewUpdateOverdueStatusJob(repo, svc, nil, logger).Run(ctx)
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "job completed with 1 errors")
		svc.AssertExpectations(t)
	})

	t.Run("listing failure aborts", func(t *testing.T) {
		repo := new(MockMembershipRepository)
		svc := new(MockChitService)
		repo.On("ListActiveMemberships", ctx).Return(nil, apperrors.ErrDatabase)

		err := batch.NewUpdateOverdueStatusJob(repo, svc, nil, logger).Run(ctx)

		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		svc.AssertNotCalled(t, "GetStatement", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no memberships resets gauge", func(t *testing.T) {
		repo := new(MockMembershipRepository)
		repo.On("ListActiveMemberships", ctx).Return([]chit.Membership{}, nil)

		err := batch.NewUpdateOverdueStatusJob(repo, new(MockChitService), nil, logger).Run(ctx)

		assert.NoError(t, err)
		assert.Equal(t, float64(0), testutil.ToFloat64(monitoring.Business.OverdueMembers))
	})
}

func TestNewUpdateOverdueStatusJobPanicsOnMissingDeps(t *testing.T) {
	assert.Panics(t, func() {
		batch.NewUpdateOverdueStatusJob(nil, new(MockChitService), nil, logger)
	})
}
