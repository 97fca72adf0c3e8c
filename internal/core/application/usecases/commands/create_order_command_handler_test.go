package commands_test

import (
	"errors"
	"testing"

	"empi/internal/core/application/usecases/commands"
	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/pricing"
	"empi/internal/core/ports"
	"empi/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testNumber = order.Number("EMPI-TEST1")

func TestCreateRegularOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateRegularOrderCommand(testBuyer(), testItems(), pricing.NoDiscount())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Event == commands.NotifyOrderCreated && n.RecipientRole == kernel.RoleAdmin && n.OrderNumber == testNumber
	})).Return(nil).Once()

	h := commands.NewCreateRegularOrderCommandHandler(factory, fixedNumbers{testNumber}, publisherWith(notifier), fixedClock(testNow))
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.NotNil(t, res.Order)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, testNumber, res.Order.Number())
	assert.Equal(t, order.Pending, res.Order.Status())
	assert.Equal(t, "21500.00", res.Order.Total().String())

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreateRegularOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateRegularOrderCommand{}
	factory := new(MockOrderUoWFactory)

	h := commands.NewCreateRegularOrderCommandHandler(factory, fixedNumbers{testNumber}, nil, fixedClock(testNow))
	_, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, commands.ErrCreateRegularOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateRegularOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateRegularOrderCommand(testBuyer(), testItems(), pricing.NoDiscount())
	require.NoError(t, err)

	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateRegularOrderCommandHandler(factory, fixedNumbers{testNumber}, nil, fixedClock(testNow))
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCreateRegularOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateRegularOrderCommand(testBuyer(), testItems(), pricing.NoDiscount())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	notifier := new(MockNotifier)

	h := commands.NewCreateRegularOrderCommandHandler(factory, fixedNumbers{testNumber}, publisherWith(notifier), fixedClock(testNow))
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestCreateRegularOrderCommandHandler_Handle_NotifierFailureIsDegradedSuccess(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateRegularOrderCommand(testBuyer(), testItems(), pricing.NoDiscount())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	repo.On("Add", mock.Anything, mock.Anything).Return(nil)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	h := commands.NewCreateRegularOrderCommandHandler(factory, fixedNumbers{testNumber}, publisherWith(notifier), fixedClock(testNow))
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, res.Degraded())
	assert.Len(t, res.Warnings, 1)
}

func TestCreateCustomOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateCustomOrderCommand(testBuyer(), "Aso-oke set for six", 6)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateCustomOrderCommandHandler(factory, fixedNumbers{testNumber}, nil, fixedClock(testNow))
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Custom, res.Order.Origin())
	assert.True(t, res.Order.Total().IsZero())
	assert.Equal(t, 6, res.Order.CustomPayload().Quantity())

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestNewCreateRegularOrderCommand_Invalid(t *testing.T) {
	_, err := commands.NewCreateRegularOrderCommand(order.Buyer{}, nil, pricing.NoDiscount())
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestNewCreateCustomOrderCommand_Invalid(t *testing.T) {
	_, err := commands.NewCreateCustomOrderCommand(testBuyer(), "", 0)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}
