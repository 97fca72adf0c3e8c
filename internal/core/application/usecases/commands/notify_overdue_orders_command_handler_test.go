package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"empi/internal/core/application/usecases/commands"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
	"empi/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func inProgressCustomOrder(t *testing.T, number order.Number, startedAt time.Time, hours int) *order.Order {
	t.Helper()
	o := pricedCustomOrder(t, number)
	require.NoError(t, o.AttachPaymentProof("evidence://proof", false, startedAt))
	require.NoError(t, o.VerifyPayment(adminActor(), startedAt))
	require.NoError(t, o.Approve(adminActor(), false, startedAt))
	require.NoError(t, o.SetTimer(adminActor(), 0, hours, false, startedAt))
	o.PullEvents()
	return o
}

func expectOverdueLoad(ctx context.Context, overdue ...*order.Order) *MockUoW {
	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("ListOverdue", mock.Anything, testNow).Return(overdue, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	return uow
}

func expectNoticeMarked(ctx context.Context, number order.Number, updateErr error) (*MockUoW, *MockOrderRepository) {
	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Update", mock.Anything, mock.MatchedBy(func(o *order.Order) bool {
		return o.Number() == number && o.Timer().NotifiedAt() != nil && o.Timer().NotifiedAt().Equal(testNow)
	})).Return(updateErr).Once()
	if updateErr == nil {
		uow.On("Commit", ctx).Return(nil).Once()
	}
	uow.On("Rollback", ctx).Return(nil).Once()
	return uow, repo
}

func TestNotifyOverdueOrdersCommandHandler_Handle_RespectsLookback(t *testing.T) {
	ctx := t.Context()
	recent := inProgressCustomOrder(t, "EMPI-RECENT", testNow.Add(-3*time.Hour), 2)
	old := inProgressCustomOrder(t, "EMPI-OLD", testNow.Add(-72*time.Hour), 2)

	load := expectOverdueLoad(ctx, recent, old)
	mark, repo := expectNoticeMarked(ctx, "EMPI-RECENT", nil)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(load).Once()
	factory.On("Create").Return(mark).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Event == commands.NotifyDeadlinePassed && n.OrderNumber == "EMPI-RECENT"
	})).Return(errors.New("smtp down")).Once()

	cmd, err := commands.NewNotifyOverdueOrdersCommand(6 * time.Hour)
	require.NoError(t, err)

	h := commands.NewNotifyOverdueOrdersCommandHandler(factory, publisherWith(notifier), fixedClock(testNow))
	report, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, []order.Number{"EMPI-RECENT"}, report.Orders)
	assert.Len(t, report.Warnings, 1)
	assert.Nil(t, old.Timer().NotifiedAt())
	notifier.AssertExpectations(t)
	repo.AssertExpectations(t)
	mark.AssertExpectations(t)
}

func TestNotifyOverdueOrdersCommandHandler_Handle_ReportsDeadlinesMissedBySkippedRuns(t *testing.T) {
	ctx := t.Context()
	stale := inProgressCustomOrder(t, "EMPI-STALE", testNow.Add(-72*time.Hour), 2)

	load := expectOverdueLoad(ctx, stale)
	mark, repo := expectNoticeMarked(ctx, "EMPI-STALE", nil)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(load).Once()
	factory.On("Create").Return(mark).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.OrderNumber == "EMPI-STALE"
	})).Return(nil).Once()

	cmd, err := commands.NewNotifyOverdueOrdersCommand(0)
	require.NoError(t, err)

	h := commands.NewNotifyOverdueOrdersCommandHandler(factory, publisherWith(notifier), fixedClock(testNow))
	report, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, []order.Number{"EMPI-STALE"}, report.Orders)
	assert.Empty(t, report.Warnings)
	notifier.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestNotifyOverdueOrdersCommandHandler_Handle_SkipsOrderChangedMeanwhile(t *testing.T) {
	ctx := t.Context()
	moved := inProgressCustomOrder(t, "EMPI-MOVED", testNow.Add(-3*time.Hour), 2)

	load := expectOverdueLoad(ctx, moved)
	mark, _ := expectNoticeMarked(ctx, "EMPI-MOVED", errs.ErrConcurrentModification)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(load).Once()
	factory.On("Create").Return(mark).Once()

	notifier := new(MockNotifier)

	cmd, err := commands.NewNotifyOverdueOrdersCommand(0)
	require.NoError(t, err)

	h := commands.NewNotifyOverdueOrdersCommandHandler(factory, publisherWith(notifier), fixedClock(testNow))
	report, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Empty(t, report.Orders)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "EMPI-MOVED")
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	mark.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestNewNotifyOverdueOrdersCommand_NegativeLookback(t *testing.T) {
	_, err := commands.NewNotifyOverdueOrdersCommand(-time.Minute)
	require.Error(t, err)
}
