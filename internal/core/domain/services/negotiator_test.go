package services_test

import (
	"testing"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/pricing"
	"empi/internal/core/domain/model/quote"
	"empi/internal/core/domain/services"
	"empi/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now       = time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	admin     = kernel.Actor{Role: kernel.RoleAdmin, ID: "admin-1"}
	customer  = kernel.Actor{Role: kernel.RoleCustomer, ID: "cust-1"}
	logistics = kernel.Actor{Role: kernel.RoleLogistics, ID: "rider-1"}
)

func newCustomOrder(t *testing.T, number order.Number) *order.Order {
	t.Helper()
	buyer, err := order.NewBuyer("Ada Obi", "ada@example.com", "")
	require.NoError(t, err)
	payload, err := order.NewCustomPayload("Egungun costume", 1)
	require.NoError(t, err)
	o, err := order.NewCustomOrder(number, buyer, payload, now)
	require.NoError(t, err)
	return o
}

// pricedCustomOrder is a custom order whose quote of 50,000.00 was accepted.
func pricedCustomOrder(t *testing.T, number order.Number) *order.Order {
	t.Helper()
	o := newCustomOrder(t, number)
	require.NoError(t, o.ApplyAcceptedQuote(customer, order.AcceptedTerms{
		QuoteID:   kernel.NewUUID(),
		Quantity:  1,
		UnitPrice: kernel.MoneyFromInt(50000),
		Discount:  pricing.NoDiscount(),
	}, now))
	o.PullEvents()
	return o
}

func newRegularOrder(t *testing.T, number order.Number) *order.Order {
	t.Helper()
	buyer, err := order.NewBuyer("Ada Obi", "ada@example.com", "")
	require.NoError(t, err)
	payload, err := order.NewRegularPayload([]order.LineItem{
		{Name: "Agbada", Quantity: 2, UnitPrice: kernel.MoneyFromInt(15000), Mode: order.Buy},
	}, pricing.NoDiscount())
	require.NoError(t, err)
	o, err := order.NewRegularOrder(number, buyer, payload, now)
	require.NoError(t, err)
	return o
}

func TestNegotiator_Propose(t *testing.T) {
	t.Run("should create a proposal and count it on the order", func(t *testing.T) {
		o := newCustomOrder(t, "EMPI-C1")

		p, err := services.NewNegotiator().Propose(o, kernel.NewUUID(), admin, quote.Terms{
			Quantity: 3, UnitPrice: kernel.MoneyFromInt(50000),
		}, now)

		require.NoError(t, err)
		assert.Equal(t, o.Number(), p.OrderNumber())
		assert.Equal(t, 1, o.CustomPayload().QuoteCount())
	})

	t.Run("should refuse a cancelled order", func(t *testing.T) {
		o := newCustomOrder(t, "EMPI-C1")
		require.NoError(t, o.Cancel(admin, "", now))

		_, err := services.NewNegotiator().Propose(o, kernel.NewUUID(), admin, quote.Terms{
			Quantity: 1, UnitPrice: kernel.MoneyFromInt(1),
		}, now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, 0, o.CustomPayload().QuoteCount())
	})
}

func TestNegotiator_Accept(t *testing.T) {
	negotiator := services.NewNegotiator()
	discount, err := pricing.NewDiscountPercent(decimal.NewFromInt(10))
	require.NoError(t, err)

	t.Run("should reprice the order and move the final flag", func(t *testing.T) {
		o := newCustomOrder(t, "EMPI-C1")
		first, err := negotiator.Propose(o, kernel.NewUUID(), admin, quote.Terms{
			Quantity: 1, UnitPrice: kernel.MoneyFromInt(20000),
		}, now)
		require.NoError(t, err)
		require.NoError(t, negotiator.Accept(o, first, nil, customer, now))

		second, err := negotiator.Propose(o, kernel.NewUUID(), admin, quote.Terms{
			Quantity: 3, UnitPrice: kernel.MoneyFromInt(50000), Discount: discount,
		}, now)
		require.NoError(t, err)

		require.NoError(t, negotiator.Accept(o, second, first, customer, now))

		assert.False(t, first.IsFinal())
		assert.True(t, second.IsFinal())
		assert.Equal(t, "145125.00", o.Total().String())
		assert.True(t, o.CustomPayload().AcceptedQuoteID().IsEqual(second.ID()))
	})

	t.Run("should not let customers accept their own counter-offer", func(t *testing.T) {
		o := newCustomOrder(t, "EMPI-C1")
		counter, err := negotiator.Propose(o, kernel.NewUUID(), customer, quote.Terms{
			Quantity: 1, UnitPrice: kernel.MoneyFromInt(100),
		}, now)
		require.NoError(t, err)

		err = negotiator.Accept(o, counter, nil, customer, now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.False(t, counter.IsFinal())
		assert.True(t, o.Total().IsZero())
	})

	t.Run("should let admins accept a counter-offer", func(t *testing.T) {
		o := newCustomOrder(t, "EMPI-C1")
		counter, err := negotiator.Propose(o, kernel.NewUUID(), customer, quote.Terms{
			Quantity: 1, UnitPrice: kernel.MoneyFromInt(100),
		}, now)
		require.NoError(t, err)

		require.NoError(t, negotiator.Accept(o, counter, nil, admin, now))
		assert.Equal(t, "107.50", o.Total().String())
	})

	t.Run("should refuse a proposal from another order", func(t *testing.T) {
		o := newCustomOrder(t, "EMPI-C1")
		other := newCustomOrder(t, "EMPI-C2")
		p, err := negotiator.Propose(other, kernel.NewUUID(), admin, quote.Terms{
			Quantity: 1, UnitPrice: kernel.MoneyFromInt(100),
		}, now)
		require.NoError(t, err)

		err = negotiator.Accept(o, p, nil, admin, now)

		require.Error(t, err)
		assert.False(t, p.IsFinal())
	})
}

func TestHandoffCoordinator_Handoff(t *testing.T) {
	coordinator := services.NewHandoffCoordinator()

	t.Run("should refuse an uploaded but unverified payment", func(t *testing.T) {
		o := newRegularOrder(t, "EMPI-R1")
		require.NoError(t, o.AttachPaymentProof("evidence://1", true, now))
		require.Equal(t, order.Approved, o.Status())

		err := coordinator.Handoff(o, admin, now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Approved, o.Status())
		assert.Equal(t, order.Production, o.Handler())
		assert.False(t, o.IsReadyForDelivery())
	})

	t.Run("should hand a verified regular order to logistics", func(t *testing.T) {
		o := newRegularOrder(t, "EMPI-R1")
		require.NoError(t, o.AttachPaymentProof("evidence://1", true, now))
		require.NoError(t, o.VerifyPayment(admin, now))

		require.NoError(t, coordinator.Handoff(o, admin, now))

		assert.True(t, o.IsReadyForDelivery())
	})

	t.Run("should hand over to logistics", func(t *testing.T) {
		o := pricedCustomOrder(t, "EMPI-C1")
		require.NoError(t, o.AttachPaymentProof("evidence://1", true, now))
		require.NoError(t, o.VerifyPayment(admin, now))
		require.NoError(t, o.SetTimer(admin, 1, 0, false, now))
		require.NoError(t, o.SetTimer(admin, 1, 0, false, now))

		require.NoError(t, coordinator.Handoff(o, admin, now))

		assert.True(t, o.IsReadyForDelivery())
		require.NoError(t, o.Complete(logistics, now))
		assert.Equal(t, "53750.00", o.Total().String())
	})

	t.Run("should treat deleted orders as missing", func(t *testing.T) {
		o := newCustomOrder(t, "EMPI-C1")
		require.NoError(t, o.SoftDelete(admin, now))

		require.ErrorIs(t, coordinator.Handoff(o, admin, now), errs.ErrObjectNotFound)
	})
}
