package pricing

import (
	"empi/internal/core/domain/model/kernel"
)

// FromSubtotal derives discount, VAT and total from an already computed subtotal.
func FromSubtotal(subtotal kernel.Money, discount DiscountPercent) Breakdown {
	subtotal = subtotal.ClampZero()
	discountAmount := subtotal.Percent(discount.Decimal())
	taxable := subtotal.Sub(discountAmount)
	vat := taxable.MulRate(VATRate)

	return Breakdown{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		VAT:            vat,
		Total:          taxable.Add(vat),
	}
}

// Quote prices quantity units at unitPrice. A non-positive quantity yields a
// zero breakdown rather than an error; callers validate quantities before
// persisting anything.
func Quote(unitPrice kernel.Money, quantity int, discount DiscountPercent) Breakdown {
	if quantity <= 0 {
		return FromSubtotal(kernel.ZeroMoney(), discount)
	}
	return FromSubtotal(unitPrice.ClampZero().MulInt(int64(quantity)), discount)
}

// Line is one priced cart line. Rental lines are charged per day.
type Line struct {
	UnitPrice  kernel.Money
	Quantity   int
	Rental     bool
	RentalDays int
}

// Amount is unitPrice × quantity, times the rental day count for rentals.
// A rental with no day count is charged as one day.
func (l Line) Amount() kernel.Money {
	if l.Quantity <= 0 {
		return kernel.ZeroMoney()
	}
	amount := l.UnitPrice.ClampZero().MulInt(int64(l.Quantity))
	if l.Rental {
		amount = amount.MulInt(int64(max(l.RentalDays, 1)))
	}
	return amount
}

// Cart prices a checkout: the sum of line amounts with the cart discount
// applied once to the whole subtotal.
func Cart(lines []Line, discount DiscountPercent) Breakdown {
	subtotal := kernel.ZeroMoney()
	for _, l := range lines {
		subtotal = subtotal.Add(l.Amount())
	}
	return FromSubtotal(subtotal, discount)
}
