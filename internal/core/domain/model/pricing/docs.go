// Package pricing is the price engine shared by quote negotiation and order
// totals. It is pure arithmetic over kernel.Money: no I/O, no clocks.
//
// For a quantity q at unit price p with an optional discount percentage d:
//
//	subtotal       = p × q
//	discountAmount = subtotal × d / 100
//	vat            = (subtotal − discountAmount) × 7.5%
//	total          = subtotal − discountAmount + vat
//
// Each amount is rounded half-up to kobo as it is produced, so the invariant
// total == subtotal − discountAmount + vat holds exactly on the stored values.
package pricing
