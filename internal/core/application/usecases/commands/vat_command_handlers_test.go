package commands_test

import (
	"testing"
	"time"

	"empi/internal/core/application/usecases/commands"
	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/vat"
	"empi/internal/core/domain/services"
	"empi/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var wat = time.FixedZone("WAT", 3600)

func testAccountant(t *testing.T) services.VATAccountant {
	t.Helper()
	a, err := services.NewVATAccountant(wat, services.CloseBySubmitting)
	require.NoError(t, err)
	return a
}

func mustKey(t *testing.T, year int, month time.Month) vat.Key {
	t.Helper()
	k, err := vat.NewKey(year, month)
	require.NoError(t, err)
	return k
}

func newTestPeriod(t *testing.T, key vat.Key) *vat.Period {
	t.Helper()
	p, err := vat.NewPeriod(kernel.NewUUID(), key, wat, testNow.Add(-30*24*time.Hour))
	require.NoError(t, err)
	return p
}

func testLedger() ([]vat.Revenue, []vat.Deduction) {
	revenue := []vat.Revenue{
		{VAT: kernel.MoneyFromInt(75), Total: kernel.MoneyFromInt(1075), RecognizedAt: time.Date(2025, time.February, 10, 9, 0, 0, 0, wat)},
		{VAT: kernel.MoneyFromInt(150), Total: kernel.MoneyFromInt(2150), RecognizedAt: time.Date(2025, time.March, 5, 9, 0, 0, 0, wat)},
	}
	deductions := []vat.Deduction{
		{VAT: kernel.MoneyFromInt(50), Deductible: true, IncurredAt: time.Date(2025, time.March, 1, 9, 0, 0, 0, wat)},
		{VAT: kernel.MoneyFromInt(999), Deductible: false, IncurredAt: time.Date(2025, time.March, 1, 9, 0, 0, 0, wat)},
	}
	return revenue, deductions
}

func expectAccountingReads(t *testing.T, uow *MockUoW) {
	t.Helper()
	revenue, deductions := testLedger()
	orderRepo := new(MockOrderRepository)
	ledger := new(MockExpenseLedger)
	orderRepo.On("ListRevenue", mock.Anything, mock.Anything, mock.Anything).Return(revenue, nil).Once()
	ledger.On("ListDeductions", mock.Anything, mock.Anything, mock.Anything).Return(deductions, nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("ExpenseLedger").Return(ledger).Once()
}

func TestRolloverVATPeriodCommandHandler_Handle_ClosesPreviousAndCreatesTarget(t *testing.T) {
	ctx := t.Context()
	march := mustKey(t, 2025, time.March)
	feb := newTestPeriod(t, march.Previous())

	periodRepo := new(MockVATPeriodRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("VATPeriodRepository").Return(periodRepo).Once()
	periodRepo.On("FindByKey", mock.Anything, march).Return(nil, nil).Once()
	periodRepo.On("List", mock.Anything, false).Return([]*vat.Period{feb}, nil).Once()
	expectAccountingReads(t, uow)
	periodRepo.On("Update", mock.Anything, feb).Return(nil).Once()
	periodRepo.On("Add", mock.Anything, mock.AnythingOfType("*vat.Period")).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockAccountingUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewRolloverVATPeriodCommand(time.Time{}, commands.TriggerSchedule)
	require.NoError(t, err)

	h := commands.NewRolloverVATPeriodCommandHandler(factory, testAccountant(t), fixedClock(testNow), zerologNop())
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, march, res.Target.Key())
	assert.Equal(t, "150.00", res.Target.Totals().OutputVAT.String())
	assert.Equal(t, "50.00", res.Target.Totals().InputVAT.String())
	assert.Equal(t, "100.00", res.Target.VATPayable().String())

	require.Len(t, res.Closed, 1)
	assert.Same(t, feb, res.Closed[0])
	assert.Equal(t, vat.Submitted, feb.Status())
	assert.Equal(t, "75.00", feb.Totals().OutputVAT.String())

	periodRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRolloverVATPeriodCommandHandler_Handle_SecondRunOnlyRefreshesTarget(t *testing.T) {
	ctx := t.Context()
	march := mustKey(t, 2025, time.March)
	target := newTestPeriod(t, march)
	feb := newTestPeriod(t, march.Previous())
	require.NoError(t, feb.Submit(testNow))

	periodRepo := new(MockVATPeriodRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("VATPeriodRepository").Return(periodRepo).Once()
	periodRepo.On("FindByKey", mock.Anything, march).Return(target, nil).Once()
	periodRepo.On("List", mock.Anything, false).Return([]*vat.Period{target, feb}, nil).Once()
	expectAccountingReads(t, uow)
	periodRepo.On("Update", mock.Anything, target).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockAccountingUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewRolloverVATPeriodCommand(testNow, commands.TriggerCLI)
	require.NoError(t, err)

	h := commands.NewRolloverVATPeriodCommandHandler(factory, testAccountant(t), fixedClock(testNow), zerologNop())
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Empty(t, res.Closed)
	assert.Equal(t, vat.Submitted, feb.Status())
	periodRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	periodRepo.AssertNotCalled(t, "Update", mock.Anything, feb)
}

func TestRolloverVATPeriodCommandHandler_Handle_ClosesEveryMissedPeriod(t *testing.T) {
	ctx := t.Context()
	march := mustKey(t, 2025, time.March)
	feb := newTestPeriod(t, march.Previous())
	jan := newTestPeriod(t, march.Previous().Previous())
	dec := newTestPeriod(t, mustKey(t, 2024, time.December))

	revenue, deductions := testLedger()
	orderRepo := new(MockOrderRepository)
	ledger := new(MockExpenseLedger)
	from := vat.WindowFor(dec.Key(), wat).Start
	to := vat.WindowFor(march, wat).End
	orderRepo.On("ListRevenue", mock.Anything, from, to).Return(revenue, nil).Once()
	ledger.On("ListDeductions", mock.Anything, from, to).Return(deductions, nil).Once()

	periodRepo := new(MockVATPeriodRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("VATPeriodRepository").Return(periodRepo).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("ExpenseLedger").Return(ledger).Once()
	periodRepo.On("FindByKey", mock.Anything, march).Return(nil, nil).Once()
	periodRepo.On("List", mock.Anything, false).Return([]*vat.Period{feb, jan, dec}, nil).Once()
	periodRepo.On("Update", mock.Anything, mock.AnythingOfType("*vat.Period")).Return(nil).Times(3)
	periodRepo.On("Add", mock.Anything, mock.AnythingOfType("*vat.Period")).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockAccountingUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewRolloverVATPeriodCommand(testNow, commands.TriggerSchedule)
	require.NoError(t, err)

	h := commands.NewRolloverVATPeriodCommandHandler(factory, testAccountant(t), fixedClock(testNow), zerologNop())
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	require.Len(t, res.Closed, 3)
	assert.Same(t, dec, res.Closed[0])
	assert.Same(t, jan, res.Closed[1])
	assert.Same(t, feb, res.Closed[2])
	for _, p := range []*vat.Period{dec, jan, feb} {
		assert.Equal(t, vat.Submitted, p.Status(), p.Key().String())
	}
	assert.Equal(t, "75.00", feb.Totals().OutputVAT.String())
	assert.Len(t, res.Changed, 4)

	orderRepo.AssertExpectations(t)
	periodRepo.AssertExpectations(t)
}

func TestReconcileVATPeriodsCommandHandler_Handle_UsesSnapshotThenWrites(t *testing.T) {
	ctx := t.Context()
	march := mustKey(t, 2025, time.March)
	mar := newTestPeriod(t, march)
	feb := newTestPeriod(t, march.Previous())
	require.NoError(t, feb.Submit(testNow))

	readRepo := new(MockVATPeriodRepository)
	readUoW := new(MockUoW)
	readUoW.On("BeginSnapshot", ctx).Return(nil).Once()
	readUoW.On("VATPeriodRepository").Return(readRepo).Once()
	readRepo.On("List", mock.Anything, false).Return([]*vat.Period{mar, feb}, nil).Once()
	expectAccountingReads(t, readUoW)
	readUoW.On("Rollback", ctx).Return(nil).Once()

	writeRepo := new(MockVATPeriodRepository)
	writeUoW := new(MockUoW)
	writeUoW.On("Begin", ctx).Return(nil).Once()
	writeUoW.On("VATPeriodRepository").Return(writeRepo).Once()
	writeRepo.On("Update", mock.Anything, mar).Return(nil).Once()
	writeRepo.On("Update", mock.Anything, feb).Return(nil).Once()
	writeUoW.On("Commit", ctx).Return(nil).Once()
	writeUoW.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockAccountingUoWFactory)
	factory.On("Create").Return(readUoW).Once()
	factory.On("Create").Return(writeUoW).Once()

	cmd, err := commands.NewReconcileVATPeriodsCommand(commands.TriggerCLI)
	require.NoError(t, err)

	h := commands.NewReconcileVATPeriodsCommandHandler(factory, testAccountant(t), fixedClock(testNow), zerologNop())
	changed, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Len(t, changed, 2)
	assert.Equal(t, "75.00", feb.Totals().OutputVAT.String())
	assert.Equal(t, vat.Submitted, feb.Status())
	assert.Equal(t, "100.00", mar.VATPayable().String())

	readUoW.AssertNotCalled(t, "Begin", mock.Anything)
	readUoW.AssertNotCalled(t, "Commit", mock.Anything)
	writeRepo.AssertExpectations(t)
}

func TestReconcileVATPeriodsCommandHandler_Handle_NoPeriods(t *testing.T) {
	ctx := t.Context()
	readRepo := new(MockVATPeriodRepository)
	readUoW := new(MockUoW)
	readUoW.On("BeginSnapshot", ctx).Return(nil).Once()
	readUoW.On("VATPeriodRepository").Return(readRepo).Once()
	readRepo.On("List", mock.Anything, false).Return([]*vat.Period{}, nil).Once()
	readUoW.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockAccountingUoWFactory)
	factory.On("Create").Return(readUoW).Once()

	cmd, err := commands.NewReconcileVATPeriodsCommand(commands.TriggerHTTP)
	require.NoError(t, err)
	h := commands.NewReconcileVATPeriodsCommandHandler(factory, testAccountant(t), fixedClock(testNow), zerologNop())
	changed, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Empty(t, changed)
	factory.AssertNumberOfCalls(t, "Create", 1)
}

func TestChangeVATPeriodStatusCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	p := newTestPeriod(t, mustKey(t, 2025, time.January))

	repo := new(MockVATPeriodRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("VATPeriodRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, p.ID()).Return(p, nil).Once(),
		repo.On("Update", mock.Anything, p).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockAccountingUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewChangeVATPeriodStatusCommand(p.ID(), "paid")
	require.NoError(t, err)
	h := commands.NewChangeVATPeriodStatusCommandHandler(factory, fixedClock(testNow))
	got, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, vat.Paid, got.Status())
	uow.AssertExpectations(t)
}

func TestChangeVATPeriodStatusCommandHandler_Handle_BackwardsRefused(t *testing.T) {
	ctx := t.Context()
	p := newTestPeriod(t, mustKey(t, 2025, time.January))
	require.NoError(t, p.Archive(testNow))

	repo := new(MockVATPeriodRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("VATPeriodRepository").Return(repo).Once()
	repo.On("Get", mock.Anything, p.ID()).Return(p, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockAccountingUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewChangeVATPeriodStatusCommand(p.ID(), "submitted")
	require.NoError(t, err)
	h := commands.NewChangeVATPeriodStatusCommandHandler(factory, fixedClock(testNow))
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestNewChangeVATPeriodStatusCommand_UnknownStatus(t *testing.T) {
	_, err := commands.NewChangeVATPeriodStatusCommand(kernel.NewUUID(), "closed")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
