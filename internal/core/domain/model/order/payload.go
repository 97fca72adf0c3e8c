package order

import (
	"errors"
	"fmt"
	"strings"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/pricing"
	"empi/internal/pkg/errs"
)

// Mode says whether a cart line is bought outright or rented per day.
type Mode string

const (
	Buy  Mode = "buy"
	Rent Mode = "rent"
)

func (m Mode) Validate() error {
	if m != Buy && m != Rent {
		return errs.NewValueIsInvalidErrorWithCause("mode", fmt.Errorf("%q is not buy or rent", string(m)))
	}
	return nil
}

// LineItem is one line of a regular checkout.
type LineItem struct {
	Name       string
	Quantity   int
	UnitPrice  kernel.Money
	Mode       Mode
	RentalDays int
}

func (li LineItem) Validate() error {
	var errList []error
	if strings.TrimSpace(li.Name) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("item.name"))
	}
	if li.Quantity <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("item.quantity", li.Quantity, 1, "unbounded"))
	}
	errList = append(errList, li.UnitPrice.ValidateNonNegative("item.unitPrice"), li.Mode.Validate())
	if li.RentalDays < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("item.rentalDays", li.RentalDays, 0, "unbounded"))
	}
	if li.Mode == Buy && li.RentalDays != 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"item.rentalDays", errors.New("rental days only apply to rented items"),
		))
	}
	return errors.Join(errList...)
}

func (li LineItem) priced() pricing.Line {
	return pricing.Line{
		UnitPrice:  li.UnitPrice,
		Quantity:   li.Quantity,
		Rental:     li.Mode == Rent,
		RentalDays: li.RentalDays,
	}
}

// Payload is the origin-specific part of an order: *RegularPayload or
// *CustomPayload. The concrete type always agrees with Order.Origin.
type Payload interface {
	Origin() Origin
	breakdown() pricing.Breakdown
	validate() error
}

// RegularPayload holds the cart of a direct checkout.
type RegularPayload struct {
	items    []LineItem
	discount pricing.DiscountPercent
}

func NewRegularPayload(items []LineItem, discount pricing.DiscountPercent) (*RegularPayload, error) {
	p := &RegularPayload{
		items:    append([]LineItem(nil), items...),
		discount: discount,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *RegularPayload) Origin() Origin {
	return Regular
}

// Items returns a copy of the cart lines.
func (p *RegularPayload) Items() []LineItem {
	return append([]LineItem(nil), p.items...)
}

func (p *RegularPayload) Discount() pricing.DiscountPercent {
	return p.discount
}

func (p *RegularPayload) validate() error {
	if len(p.items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	errList := make([]error, 0, len(p.items))
	for _, item := range p.items {
		errList = append(errList, item.Validate())
	}
	return errors.Join(errList...)
}

func (p *RegularPayload) breakdown() pricing.Breakdown {
	lines := make([]pricing.Line, 0, len(p.items))
	for _, item := range p.items {
		lines = append(lines, item.priced())
	}
	return pricing.Cart(lines, p.discount)
}

// CustomPayload holds the negotiated terms of a bespoke order. Unit price and
// discount stay zero until a quote is accepted.
type CustomPayload struct {
	description     string
	quantity        int
	unitPrice       kernel.Money
	discount        pricing.DiscountPercent
	acceptedQuoteID *kernel.UUID
	quoteCount      int
}

func NewCustomPayload(description string, quantity int) (*CustomPayload, error) {
	p := &CustomPayload{
		description: strings.TrimSpace(description),
		quantity:    quantity,
		unitPrice:   kernel.ZeroMoney(),
		discount:    pricing.NoDiscount(),
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// RestoreCustomPayload rebuilds a payload read from storage.
func RestoreCustomPayload(
	description string,
	quantity int,
	unitPrice kernel.Money,
	discount pricing.DiscountPercent,
	acceptedQuoteID *kernel.UUID,
	quoteCount int,
) (*CustomPayload, error) {
	p := &CustomPayload{
		description:     description,
		quantity:        quantity,
		unitPrice:       unitPrice,
		discount:        discount,
		acceptedQuoteID: acceptedQuoteID,
		quoteCount:      quoteCount,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	if quoteCount < 0 {
		return nil, errs.NewValueIsOutOfRangeError("quoteCount", quoteCount, 0, "unbounded")
	}
	return p, nil
}

func (p *CustomPayload) Origin() Origin {
	return Custom
}

func (p *CustomPayload) Description() string {
	return p.description
}

func (p *CustomPayload) Quantity() int {
	return p.quantity
}

func (p *CustomPayload) UnitPrice() kernel.Money {
	return p.unitPrice
}

func (p *CustomPayload) Discount() pricing.DiscountPercent {
	return p.discount
}

// AcceptedQuoteID is nil until a proposal has been accepted.
func (p *CustomPayload) AcceptedQuoteID() *kernel.UUID {
	return p.acceptedQuoteID
}

func (p *CustomPayload) QuoteCount() int {
	return p.quoteCount
}

// IsPriced reports whether a quote has been accepted.
func (p *CustomPayload) IsPriced() bool {
	return p.acceptedQuoteID != nil
}

func (p *CustomPayload) validate() error {
	var errList []error
	if p.description == "" {
		errList = append(errList, errs.NewValueIsRequiredError("description"))
	}
	if p.quantity <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("quantity", p.quantity, 1, "unbounded"))
	}
	errList = append(errList, p.unitPrice.ValidateNonNegative("unitPrice"))
	return errors.Join(errList...)
}

func (p *CustomPayload) breakdown() pricing.Breakdown {
	return pricing.Quote(p.unitPrice, p.quantity, p.discount)
}
