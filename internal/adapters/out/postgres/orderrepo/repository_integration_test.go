package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"empi/internal/adapters/out/postgres"
	"empi/internal/adapters/out/postgres/orderrepo"
	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/pricing"
	"empi/internal/core/ports"
	"empi/internal/pkg/errs"
	"empi/internal/pkg/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var base = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

// OrderRepositoryIntegrationTestSuite runs the order repository against a
// real PostgreSQL container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *testdb.Database
	repository *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := testdb.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.Require().NoError(postgres.Migrate(database.DB))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate("orders"))
	suite.repository = orderrepo.NewGormOrderRepository(suite.database.DB)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_RegularOrder_RoundTrips() {
	ctx := suite.T().Context()
	o := suite.regularOrder("EMPI-R1")

	suite.Require().NoError(suite.repository.Add(ctx, o))

	got, err := suite.repository.Get(ctx, "EMPI-R1")
	suite.Require().NoError(err)
	suite.Equal(order.Regular, got.Origin())
	suite.Equal(order.Pending, got.Status())
	suite.Equal(order.Production, got.Handler())
	suite.Equal("Ada Obi", got.Buyer().Name)
	suite.True(got.Total().Equal(o.Total()))
	suite.Equal("17415.00", got.Total().String())
	suite.Require().Len(got.RegularPayload().Items(), 2)
	suite.Equal(order.Rent, got.RegularPayload().Items()[1].Mode)
	suite.Equal(int64(0), got.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateNumber_IsInvalid() {
	ctx := suite.T().Context()
	suite.Require().NoError(suite.repository.Add(ctx, suite.regularOrder("EMPI-DUP")))

	err := suite.repository.Add(ctx, suite.regularOrder("EMPI-DUP"))

	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ConcurrentModification() {
	ctx := suite.T().Context()
	suite.Require().NoError(suite.repository.Add(ctx, suite.regularOrder("EMPI-V1")))

	first, err := suite.repository.Get(ctx, "EMPI-V1")
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, "EMPI-V1")
	suite.Require().NoError(err)

	suite.Require().NoError(first.Approve(admin(), true, base.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, first))
	suite.Equal(int64(1), first.Version())

	suite.Require().NoError(second.Reject(admin(), "out of stock", base.Add(2*time.Minute)))
	err = suite.repository.Update(ctx, second)
	suite.Require().ErrorIs(err, errs.ErrConcurrentModification)

	stored, err := suite.repository.Get(ctx, "EMPI-V1")
	suite.Require().NoError(err)
	suite.Equal(order.Approved, stored.Status())
	suite.Equal(int64(1), stored.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_MissingOrder_NotFound() {
	err := suite.repository.Update(suite.T().Context(), suite.regularOrder("EMPI-GHOST"))

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestSoftDelete_HidesFromReads() {
	ctx := suite.T().Context()
	suite.Require().NoError(suite.repository.Add(ctx, suite.regularOrder("EMPI-DEL")))
	suite.Require().NoError(suite.repository.Add(ctx, suite.regularOrder("EMPI-KEEP")))

	o, err := suite.repository.Get(ctx, "EMPI-DEL")
	suite.Require().NoError(err)
	suite.Require().NoError(o.SoftDelete(admin(), base.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, o))

	_, err = suite.repository.Get(ctx, "EMPI-DEL")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	deleted, err := suite.repository.GetIncludingDeleted(ctx, "EMPI-DEL")
	suite.Require().NoError(err)
	suite.False(deleted.IsActive())
	suite.NotNil(deleted.DeletedAt())

	visible, err := suite.repository.List(ctx, ports.OrderFilter{})
	suite.Require().NoError(err)
	suite.Require().Len(visible, 1)
	suite.Equal(order.Number("EMPI-KEEP"), visible[0].Number())

	all, err := suite.repository.List(ctx, ports.OrderFilter{IncludeDeleted: true})
	suite.Require().NoError(err)
	suite.Len(all, 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestList_FiltersByStatusAndOrigin() {
	ctx := suite.T().Context()
	suite.Require().NoError(suite.repository.Add(ctx, suite.regularOrder("EMPI-A")))
	suite.Require().NoError(suite.repository.Add(ctx, suite.customOrder("EMPI-B")))

	custom := order.Custom
	got, err := suite.repository.List(ctx, ports.OrderFilter{Origin: &custom})
	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.Equal("Beaded gele", got[0].CustomPayload().Description())

	approved := order.Approved
	got, err = suite.repository.List(ctx, ports.OrderFilter{Status: &approved})
	suite.Require().NoError(err)
	suite.Empty(got)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestCustomOrder_TimerAndOverdue() {
	ctx := suite.T().Context()
	o := suite.customOrder("EMPI-C1")
	suite.Require().NoError(o.ApplyAcceptedQuote(admin(), order.AcceptedTerms{
		QuoteID: kernel.NewUUID(), Quantity: 3, UnitPrice: kernel.MoneyFromInt(20000), Discount: pricing.NoDiscount(),
	}, base))
	suite.Require().NoError(o.AttachPaymentProof("evidence://p", false, base))
	suite.Require().NoError(o.VerifyPayment(admin(), base))
	suite.Require().NoError(o.SetTimer(admin(), 0, 1, false, base))
	suite.Require().NoError(o.SetTimer(admin(), 0, 2, false, base.Add(time.Minute)))
	suite.Require().Equal(order.InProgress, o.Status())
	suite.Require().NoError(suite.repository.Add(ctx, o))

	overdue, err := suite.repository.ListOverdue(ctx, base.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Empty(overdue)

	overdue, err = suite.repository.ListOverdue(ctx, base.Add(3*time.Hour))
	suite.Require().NoError(err)
	suite.Require().Len(overdue, 1)
	suite.Require().NotNil(overdue[0].Timer())
	suite.Equal(2, overdue[0].Timer().Hours())
	suite.True(overdue[0].Timer().Deadline().Equal(base.Add(time.Minute + 2*time.Hour)))

	notified := overdue[0]
	suite.Require().NoError(notified.MarkOverdueNotified(base.Add(3 * time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, notified))

	overdue, err = suite.repository.ListOverdue(ctx, base.Add(4*time.Hour))
	suite.Require().NoError(err)
	suite.Empty(overdue)

	stored, err := suite.repository.Get(ctx, "EMPI-C1")
	suite.Require().NoError(err)
	suite.Require().NotNil(stored.Timer().NotifiedAt())
	suite.True(stored.Timer().NotifiedAt().Equal(base.Add(3 * time.Hour)))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestCustomOrder_AcceptedQuoteRoundTrips() {
	ctx := suite.T().Context()
	o := suite.customOrder("EMPI-Q1")
	quoteID := kernel.NewUUID()
	discount, err := pricing.NewDiscountPercent(decimal.NewFromInt(10))
	suite.Require().NoError(err)
	suite.Require().NoError(o.RegisterQuote(base))
	suite.Require().NoError(o.ApplyAcceptedQuote(admin(), order.AcceptedTerms{
		QuoteID:   quoteID,
		Quantity:  3,
		UnitPrice: kernel.MoneyFromInt(50000),
		Discount:  discount,
	}, base))
	suite.Require().NoError(suite.repository.Add(ctx, o))

	got, err := suite.repository.Get(ctx, "EMPI-Q1")
	suite.Require().NoError(err)
	p := got.CustomPayload()
	suite.Require().NotNil(p.AcceptedQuoteID())
	suite.True(p.AcceptedQuoteID().IsEqual(quoteID))
	suite.Equal(1, p.QuoteCount())
	suite.Equal("145125.00", got.Total().String())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListRevenue_CompletedInWindowIncludingDeleted() {
	ctx := suite.T().Context()
	inside := suite.completedOrder("EMPI-IN", base)
	suite.Require().NoError(inside.SoftDelete(admin(), base.Add(time.Hour)))
	suite.Require().NoError(suite.repository.Add(ctx, inside))
	suite.Require().NoError(suite.repository.Add(ctx, suite.completedOrder("EMPI-OUT", base.AddDate(0, 1, 0))))
	suite.Require().NoError(suite.repository.Add(ctx, suite.regularOrder("EMPI-OPEN")))

	revenue, err := suite.repository.ListRevenue(ctx, base.AddDate(0, 0, -1), base.AddDate(0, 0, 1))
	suite.Require().NoError(err)
	suite.Require().Len(revenue, 1)
	suite.Equal("1215.00", revenue[0].VAT.String())
	suite.True(revenue[0].RecognizedAt.Equal(base.Add(20 * time.Minute)))
}

func (suite *OrderRepositoryIntegrationTestSuite) regularOrder(number string) *order.Order {
	items := []order.LineItem{
		{Name: "Agbada", Quantity: 1, UnitPrice: kernel.MoneyFromInt(10000), Mode: order.Buy},
		{Name: "Canopy", Quantity: 1, UnitPrice: kernel.MoneyFromInt(4000), Mode: order.Rent, RentalDays: 2},
	}
	discount, err := pricing.NewDiscountPercent(decimal.NewFromInt(10))
	suite.Require().NoError(err)
	payload, err := order.NewRegularPayload(items, discount)
	suite.Require().NoError(err)
	buyer, err := order.NewBuyer("Ada Obi", "ada@example.com", "+2348000000000")
	suite.Require().NoError(err)
	o, err := order.NewRegularOrder(order.Number(number), buyer, payload, base)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) customOrder(number string) *order.Order {
	payload, err := order.NewCustomPayload("Beaded gele", 3)
	suite.Require().NoError(err)
	buyer, err := order.NewBuyer("Ada Obi", "ada@example.com", "")
	suite.Require().NoError(err)
	o, err := order.NewCustomOrder(order.Number(number), buyer, payload, base)
	suite.Require().NoError(err)
	return o
}

// completedOrder is a 17415.00 regular order completed 20 minutes after at.
func (suite *OrderRepositoryIntegrationTestSuite) completedOrder(number string, at time.Time) *order.Order {
	o := suite.regularOrder(number)
	suite.Require().NoError(o.AttachPaymentProof("evidence://p", true, at))
	suite.Require().NoError(o.VerifyPayment(admin(), at.Add(5*time.Minute)))
	suite.Require().NoError(o.MarkReady(admin(), at.Add(10*time.Minute)))
	logistics, err := kernel.NewActor(kernel.RoleLogistics, "dispatch")
	suite.Require().NoError(err)
	suite.Require().NoError(o.Complete(logistics, at.Add(20*time.Minute)))
	return o
}

func admin() kernel.Actor {
	a, err := kernel.NewActor(kernel.RoleAdmin, "admin-1")
	if err != nil {
		panic(err)
	}
	return a
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
