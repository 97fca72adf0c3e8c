package pricing

import (
	"fmt"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// VATRate is the statutory value added tax rate.
var VATRate = decimal.RequireFromString("0.075")

var (
	hundred = decimal.NewFromInt(100)

	// ErrBreakdownIsInconsistent is returned when a persisted breakdown does
	// not satisfy total == subtotal − discountAmount + vat.
	ErrBreakdownIsInconsistent = errs.NewValueIsInvalidError("total does not equal subtotal - discount + vat")
)

// Breakdown is the set of derived monetary fields stored on orders and
// proposals.
type Breakdown struct {
	Subtotal       kernel.Money
	DiscountAmount kernel.Money
	VAT            kernel.Money
	Total          kernel.Money
}

// RestoreBreakdown rebuilds a breakdown read from persistence and checks the
// monetary invariant.
func RestoreBreakdown(subtotal, discountAmount, vat, total kernel.Money) (Breakdown, error) {
	b := Breakdown{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		VAT:            vat,
		Total:          total,
	}
	if err := b.Validate(); err != nil {
		return Breakdown{}, err
	}
	return b, nil
}

// Validate checks total == subtotal − discountAmount + vat.
func (b Breakdown) Validate() error {
	expected := b.Subtotal.Sub(b.DiscountAmount).Add(b.VAT)
	if !expected.Equal(b.Total) {
		return errs.NewValueIsInvalidErrorWithCause(
			"total",
			fmt.Errorf("%s != %s - %s + %s", b.Total, b.Subtotal, b.DiscountAmount, b.VAT),
		)
	}
	return nil
}

// Taxable is the amount VAT is charged on.
func (b Breakdown) Taxable() kernel.Money {
	return b.Subtotal.Sub(b.DiscountAmount)
}

// DiscountPercent is a percentage in [0, 100]. The zero value means no discount.
type DiscountPercent struct {
	pct decimal.Decimal
}

// NoDiscount returns a zero discount.
func NoDiscount() DiscountPercent {
	return DiscountPercent{pct: decimal.Zero}
}

// NewDiscountPercent validates pct.
func NewDiscountPercent(pct decimal.Decimal) (DiscountPercent, error) {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return DiscountPercent{}, errs.NewValueIsOutOfRangeError("discountPercent", pct.String(), 0, 100)
	}
	return DiscountPercent{pct: pct}, nil
}

// Decimal exposes the percentage for persistence.
func (d DiscountPercent) Decimal() decimal.Decimal {
	return d.pct
}

func (d DiscountPercent) IsZero() bool {
	return d.pct.IsZero()
}

func (d DiscountPercent) String() string {
	return d.pct.String()
}
