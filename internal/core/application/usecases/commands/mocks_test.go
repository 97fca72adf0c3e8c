package commands_test

import (
	"context"
	"time"

	"empi/internal/core/application/usecases/commands"
	"empi/internal/core/domain/model/expense"
	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/quote"
	"empi/internal/core/domain/model/vat"
	"empi/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, number order.Number) (*order.Order, error) {
	args := m.Called(ctx, number)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetIncludingDeleted(ctx context.Context, number order.Number) (*order.Order, error) {
	args := m.Called(ctx, number)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) ListOverdue(ctx context.Context, now time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, now)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) ListRevenue(ctx context.Context, from, to time.Time) ([]vat.Revenue, error) {
	args := m.Called(ctx, from, to)
	revenue, _ := args.Get(0).([]vat.Revenue)
	return revenue, args.Error(1)
}

type MockQuoteRepository struct{ mock.Mock }

func (m *MockQuoteRepository) Add(ctx context.Context, p *quote.Proposal) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockQuoteRepository) UpdateFinal(ctx context.Context, p *quote.Proposal) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockQuoteRepository) Get(ctx context.Context, id kernel.UUID) (*quote.Proposal, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*quote.Proposal)
	return p, args.Error(1)
}

func (m *MockQuoteRepository) FindFinal(ctx context.Context, number order.Number) (*quote.Proposal, error) {
	args := m.Called(ctx, number)
	p, _ := args.Get(0).(*quote.Proposal)
	return p, args.Error(1)
}

func (m *MockQuoteRepository) ListByOrder(ctx context.Context, number order.Number) ([]*quote.Proposal, error) {
	args := m.Called(ctx, number)
	proposals, _ := args.Get(0).([]*quote.Proposal)
	return proposals, args.Error(1)
}

type MockVATPeriodRepository struct{ mock.Mock }

func (m *MockVATPeriodRepository) Add(ctx context.Context, p *vat.Period) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockVATPeriodRepository) Update(ctx context.Context, p *vat.Period) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockVATPeriodRepository) Get(ctx context.Context, id kernel.UUID) (*vat.Period, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*vat.Period)
	return p, args.Error(1)
}

func (m *MockVATPeriodRepository) FindByKey(ctx context.Context, key vat.Key) (*vat.Period, error) {
	args := m.Called(ctx, key)
	p, _ := args.Get(0).(*vat.Period)
	return p, args.Error(1)
}

func (m *MockVATPeriodRepository) List(ctx context.Context, includeArchived bool) ([]*vat.Period, error) {
	args := m.Called(ctx, includeArchived)
	periods, _ := args.Get(0).([]*vat.Period)
	return periods, args.Error(1)
}

type MockExpenseLedger struct{ mock.Mock }

func (m *MockExpenseLedger) ListDeductions(ctx context.Context, from, to time.Time) ([]vat.Deduction, error) {
	args := m.Called(ctx, from, to)
	deductions, _ := args.Get(0).([]vat.Deduction)
	return deductions, args.Error(1)
}

type MockExpenseWriter struct{ mock.Mock }

func (m *MockExpenseWriter) Add(ctx context.Context, e *expense.Expense) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

// MockUoW implements every unit of work view used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) BeginSnapshot(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) QuoteRepository() ports.QuoteRepository {
	args := m.Called()
	return args.Get(0).(ports.QuoteRepository)
}

func (m *MockUoW) VATPeriodRepository() ports.VATPeriodRepository {
	args := m.Called()
	return args.Get(0).(ports.VATPeriodRepository)
}

func (m *MockUoW) ExpenseLedger() ports.ExpenseLedger {
	args := m.Called()
	return args.Get(0).(ports.ExpenseLedger)
}

func (m *MockUoW) ExpenseWriter() ports.ExpenseWriter {
	args := m.Called()
	return args.Get(0).(ports.ExpenseWriter)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockNegotiationUoWFactory struct{ mock.Mock }

func (m *MockNegotiationUoWFactory) Create() commands.NegotiationUoW {
	args := m.Called()
	return args.Get(0).(commands.NegotiationUoW)
}

type MockAccountingUoWFactory struct{ mock.Mock }

func (m *MockAccountingUoWFactory) Create() commands.AccountingUoW {
	args := m.Called()
	return args.Get(0).(commands.AccountingUoW)
}

type MockCompletionUoWFactory struct{ mock.Mock }

func (m *MockCompletionUoWFactory) Create() commands.CompletionUoW {
	args := m.Called()
	return args.Get(0).(commands.CompletionUoW)
}

type MockExpenseUoWFactory struct{ mock.Mock }

func (m *MockExpenseUoWFactory) Create() commands.ExpenseUoW {
	args := m.Called()
	return args.Get(0).(commands.ExpenseUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n ports.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockEvidenceStore struct{ mock.Mock }

func (m *MockEvidenceStore) Put(ctx context.Context, number order.Number, contentType string, blob []byte) (string, error) {
	args := m.Called(ctx, number, contentType, blob)
	return args.String(0), args.Error(1)
}

type fixedNumbers struct{ number order.Number }

func (g fixedNumbers) Next() order.Number {
	return g.number
}

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) ports.Clock {
	return ports.ClockFunc(func() time.Time { return t })
}

func adminActor() kernel.Actor {
	return kernel.Actor{Role: kernel.RoleAdmin, ID: "admin-1"}
}

func customerActor() kernel.Actor {
	return kernel.Actor{Role: kernel.RoleCustomer, ID: "cust-1"}
}

func logisticsActor() kernel.Actor {
	return kernel.Actor{Role: kernel.RoleLogistics, ID: "rider-1"}
}

func testBuyer() order.Buyer {
	b, err := order.NewBuyer("Ada Obi", "ada@example.com", "")
	if err != nil {
		panic(err)
	}
	return b
}

func testItems() []order.LineItem {
	return []order.LineItem{
		{Name: "Agbada", Quantity: 2, UnitPrice: kernel.MoneyFromInt(10000), Mode: order.Buy},
	}
}

// ensureNotifications accepts any notification; tests assert on calls when
// the content matters.
func ensureNotifications(n *MockNotifier) {
	n.On("Notify", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func publisherWith(n ports.Notifier) *commands.EventPublisher {
	return commands.NewEventPublisher(n, time.Second, zerologNop())
}
