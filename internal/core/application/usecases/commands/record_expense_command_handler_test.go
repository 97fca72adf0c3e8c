package commands_test

import (
	"testing"
	"time"

	"empi/internal/core/application/usecases/commands"
	"empi/internal/core/domain/model/expense"
	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/vat"
	"empi/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestExpense(t *testing.T, deductible bool) *expense.Expense {
	t.Helper()
	e, err := expense.NewExpense(
		kernel.NewUUID(), "Aso-oke fabric", kernel.MoneyFromInt(10750), kernel.MoneyFromInt(750),
		deductible, time.Date(2025, time.March, 3, 10, 0, 0, 0, wat),
	)
	require.NoError(t, err)
	return e
}

func expectExpenseAttempt(
	t *testing.T,
	e *expense.Expense,
	period *vat.Period,
	periodErr error,
) (*MockUoW, *MockExpenseWriter, *MockVATPeriodRepository) {
	t.Helper()
	ctx := t.Context()

	writer := new(MockExpenseWriter)
	periodRepo := new(MockVATPeriodRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ExpenseWriter").Return(writer).Once()
	writer.On("Add", mock.Anything, e).Return(nil).Once()
	uow.On("VATPeriodRepository").Return(periodRepo).Once()
	periodRepo.On("FindByKey", mock.Anything, mustKey(t, 2025, time.March)).Return(period, nil).Once()
	if period != nil {
		periodRepo.On("Update", mock.Anything, period).Return(periodErr).Maybe()
	}
	if periodErr == nil {
		uow.On("Commit", ctx).Return(nil).Once()
	}
	uow.On("Rollback", ctx).Return(nil).Once()
	return uow, writer, periodRepo
}

func TestRecordExpenseCommandHandler_Handle_BooksInputVAT(t *testing.T) {
	ctx := t.Context()
	e := newTestExpense(t, true)
	march := newTestPeriod(t, mustKey(t, 2025, time.March))

	uow, writer, periodRepo := expectExpenseAttempt(t, e, march, nil)
	factory := new(MockExpenseUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewRecordExpenseCommand(e, adminActor())
	require.NoError(t, err)

	h := commands.NewRecordExpenseCommandHandler(factory, testAccountant(t), fixedClock(testNow))
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, res.Booked)
	assert.Equal(t, "750.00", march.Totals().InputVAT.String())
	assert.Equal(t, 1, march.Totals().ExpenseCount)
	writer.AssertExpectations(t)
	periodRepo.AssertCalled(t, "Update", mock.Anything, march)
	uow.AssertExpectations(t)
}

func TestRecordExpenseCommandHandler_Handle_LedgerOnlyWithoutOpenPeriod(t *testing.T) {
	ctx := t.Context()

	for name, e := range map[string]*expense.Expense{
		"no period":      newTestExpense(t, true),
		"non-deductible": newTestExpense(t, false),
	} {
		t.Run(name, func(t *testing.T) {
			var period *vat.Period
			if name == "non-deductible" {
				period = newTestPeriod(t, mustKey(t, 2025, time.March))
			}
			uow, writer, periodRepo := expectExpenseAttempt(t, e, period, nil)
			factory := new(MockExpenseUoWFactory)
			factory.On("Create").Return(uow).Once()

			cmd, err := commands.NewRecordExpenseCommand(e, adminActor())
			require.NoError(t, err)

			h := commands.NewRecordExpenseCommandHandler(factory, testAccountant(t), fixedClock(testNow))
			res, err := h.Handle(ctx, cmd)
			require.NoError(t, err)

			assert.False(t, res.Booked)
			writer.AssertExpectations(t)
			periodRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestRecordExpenseCommandHandler_Handle_RetriesOnConflict(t *testing.T) {
	ctx := t.Context()
	e := newTestExpense(t, true)
	conflict := errs.NewConcurrentModificationError("vatPeriod", "2025-03", 0)

	firstUoW, _, _ := expectExpenseAttempt(t, e, newTestPeriod(t, mustKey(t, 2025, time.March)), conflict)
	fresh := newTestPeriod(t, mustKey(t, 2025, time.March))
	secondUoW, _, _ := expectExpenseAttempt(t, e, fresh, nil)

	factory := new(MockExpenseUoWFactory)
	factory.On("Create").Return(firstUoW).Once()
	factory.On("Create").Return(secondUoW).Once()

	cmd, err := commands.NewRecordExpenseCommand(e, adminActor())
	require.NoError(t, err)

	h := commands.NewRecordExpenseCommandHandler(factory, testAccountant(t), fixedClock(testNow)).WithBackOff(noRetryDelay)
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, res.Booked)
	assert.Equal(t, 1, fresh.Totals().ExpenseCount)
	firstUoW.AssertNotCalled(t, "Commit", mock.Anything)
	secondUoW.AssertExpectations(t)
}

func TestNewRecordExpenseCommand(t *testing.T) {
	_, err := commands.NewRecordExpenseCommand(newTestExpense(t, true), customerActor())
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewRecordExpenseCommand(nil, adminActor())
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
