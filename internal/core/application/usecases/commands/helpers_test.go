package commands_test

import (
	"testing"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/pricing"
	"empi/internal/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func zerologNop() zerolog.Logger {
	return logger.Nop()
}

func newRegularOrder(t *testing.T, number order.Number) *order.Order {
	t.Helper()
	payload, err := order.NewRegularPayload(testItems(), pricing.NoDiscount())
	require.NoError(t, err)
	o, err := order.NewRegularOrder(number, testBuyer(), payload, testNow.Add(-time.Hour))
	require.NoError(t, err)
	o.PullEvents()
	return o
}

func newCustomOrder(t *testing.T, number order.Number) *order.Order {
	t.Helper()
	payload, err := order.NewCustomPayload("Beaded gele for a wedding", 3)
	require.NoError(t, err)
	o, err := order.NewCustomOrder(number, testBuyer(), payload, testNow.Add(-time.Hour))
	require.NoError(t, err)
	o.PullEvents()
	return o
}

// pricedCustomOrder is a custom order whose quote of 3 x 50,000.00 was
// accepted.
func pricedCustomOrder(t *testing.T, number order.Number) *order.Order {
	t.Helper()
	o := newCustomOrder(t, number)
	require.NoError(t, o.ApplyAcceptedQuote(customerActor(), order.AcceptedTerms{
		QuoteID:   kernel.NewUUID(),
		Quantity:  3,
		UnitPrice: kernel.MoneyFromInt(50000),
		Discount:  pricing.NoDiscount(),
	}, testNow.Add(-55*time.Minute)))
	o.PullEvents()
	return o
}

// uploadApprovedRegularOrder was approved by its proof upload; nobody has
// verified the payment yet.
func uploadApprovedRegularOrder(t *testing.T, number order.Number) *order.Order {
	t.Helper()
	o := newRegularOrder(t, number)
	require.NoError(t, o.AttachPaymentProof("evidence://proof", true, testNow.Add(-50*time.Minute)))
	o.PullEvents()
	return o
}

// approvedRegularOrder is approved with its payment verified.
func approvedRegularOrder(t *testing.T, number order.Number) *order.Order {
	t.Helper()
	o := uploadApprovedRegularOrder(t, number)
	require.NoError(t, o.VerifyPayment(adminActor(), testNow.Add(-45*time.Minute)))
	o.PullEvents()
	return o
}

// readyRegularOrder is a regular order that was paid, verified, approved and
// handed to logistics.
func readyRegularOrder(t *testing.T, number order.Number) *order.Order {
	t.Helper()
	o := approvedRegularOrder(t, number)
	require.NoError(t, o.MarkReady(adminActor(), testNow.Add(-40*time.Minute)))
	o.PullEvents()
	return o
}
