package quote_test

import (
	"testing"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/pricing"
	"empi/internal/core/domain/model/quote"
	"empi/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now      = time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	admin    = kernel.Actor{Role: kernel.RoleAdmin, ID: "admin-1"}
	customer = kernel.Actor{Role: kernel.RoleCustomer, ID: "cust-1"}
)

func tenPercent(t *testing.T) pricing.DiscountPercent {
	t.Helper()
	d, err := pricing.NewDiscountPercent(decimal.NewFromInt(10))
	require.NoError(t, err)
	return d
}

func TestNewProposal(t *testing.T) {
	t.Run("should price the terms", func(t *testing.T) {
		p, err := quote.NewProposal(kernel.NewUUID(), "EMPI-C1", admin, quote.Terms{
			Quantity:  3,
			UnitPrice: kernel.MoneyFromInt(50000),
			Discount:  tenPercent(t),
			Message:   "  includes beadwork  ",
		}, now)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		b := p.Breakdown()
		assert.Equal(t, "150000.00", b.Subtotal.String())
		assert.Equal(t, "15000.00", b.DiscountAmount.String())
		assert.Equal(t, "10125.00", b.VAT.String())
		assert.Equal(t, "145125.00", b.Total.String())
		assert.False(t, p.IsFinal())
		assert.Equal(t, "includes beadwork", p.Snapshot().Message)
		assert.Equal(t, kernel.RoleCustomer, p.CounterParty())
	})

	t.Run("should reject zero quantity and negative price", func(t *testing.T) {
		_, err := quote.NewProposal(kernel.NewUUID(), "EMPI-C1", admin, quote.Terms{
			Quantity:  0,
			UnitPrice: kernel.MoneyFromInt(-5),
		}, now)

		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "quantity")
		assert.Contains(t, err.Error(), "unitPrice")
	})

	t.Run("should reject senders other than admin or customer", func(t *testing.T) {
		_, err := quote.NewProposal(kernel.NewUUID(), "EMPI-C1", kernel.SystemActor(), quote.Terms{
			Quantity:  1,
			UnitPrice: kernel.MoneyFromInt(1),
		}, now)

		require.Error(t, err)
	})

	t.Run("should reject delivery dates in the past", func(t *testing.T) {
		past := now.Add(-time.Hour)

		_, err := quote.NewProposal(kernel.NewUUID(), "EMPI-C1", admin, quote.Terms{
			Quantity:             1,
			UnitPrice:            kernel.MoneyFromInt(1),
			ProposedDeliveryDate: &past,
		}, now)

		require.Error(t, err)
	})
}

func TestProposal_CanBeAcceptedBy(t *testing.T) {
	fromAdmin, err := quote.NewProposal(kernel.NewUUID(), "EMPI-C1", admin, quote.Terms{
		Quantity: 1, UnitPrice: kernel.MoneyFromInt(100),
	}, now)
	require.NoError(t, err)
	fromCustomer, err := quote.NewProposal(kernel.NewUUID(), "EMPI-C1", customer, quote.Terms{
		Quantity: 1, UnitPrice: kernel.MoneyFromInt(80),
	}, now)
	require.NoError(t, err)

	require.NoError(t, fromAdmin.CanBeAcceptedBy(admin))
	require.NoError(t, fromAdmin.CanBeAcceptedBy(customer))
	require.NoError(t, fromCustomer.CanBeAcceptedBy(admin))
	require.ErrorIs(t, fromCustomer.CanBeAcceptedBy(customer), errs.ErrInvalidTransition)
	require.ErrorIs(t, fromAdmin.CanBeAcceptedBy(kernel.Actor{Role: kernel.RoleLogistics}), errs.ErrInvalidTransition)
}

func TestProposal_FinalFlag(t *testing.T) {
	p, err := quote.NewProposal(kernel.NewUUID(), "EMPI-C1", admin, quote.Terms{
		Quantity: 2, UnitPrice: kernel.MoneyFromInt(100),
	}, now)
	require.NoError(t, err)

	p.MarkFinal()
	assert.True(t, p.IsFinal())
	terms := p.Terms()
	assert.True(t, terms.QuoteID.IsEqual(p.ID()))
	assert.Equal(t, 2, terms.Quantity)

	p.ClearFinal()
	assert.False(t, p.IsFinal())
}

func TestRestoreProposal(t *testing.T) {
	p, err := quote.NewProposal(kernel.NewUUID(), "EMPI-C1", admin, quote.Terms{
		Quantity: 3, UnitPrice: kernel.MoneyFromInt(50000), Discount: tenPercent(t),
	}, now)
	require.NoError(t, err)

	t.Run("should round trip", func(t *testing.T) {
		restored, err := quote.RestoreProposal(p.Snapshot())

		require.NoError(t, err)
		assert.Equal(t, p.Snapshot(), restored.Snapshot())
	})

	t.Run("should refuse a tampered total", func(t *testing.T) {
		s := p.Snapshot()
		s.Breakdown.VAT = s.Breakdown.VAT.Add(kernel.MoneyFromInt(1))
		s.Breakdown.Total = s.Breakdown.Total.Add(kernel.MoneyFromInt(1))

		_, err := quote.RestoreProposal(s)

		require.Error(t, err)
	})
}
