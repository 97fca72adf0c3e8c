package commands

import (
	"errors"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/pricing"
	"empi/internal/pkg/guard"
)

var ErrCreateRegularOrderCommandIsNotConstructed = errors.New(
	"CreateRegularOrderCommand must be created via NewCreateRegularOrderCommand constructor",
)

// CreateRegularOrderCommand checks out a cart. Prices are taken from the
// line items and never from the caller's totals.
//
// Example:
//
//	cmd, err := NewCreateRegularOrderCommand(buyer, items, pricing.NoDiscount())
//	if err != nil {
//	    return fmt.Errorf("invalid cart: %w", err)
//	}
//	res, err := handler.Handle(ctx, cmd)
type CreateRegularOrderCommand struct { //nolint:recvcheck //using for validation
	buyer   order.Buyer
	payload *order.RegularPayload

	guard guard.ConstructorGuard
}

func NewCreateRegularOrderCommand(
	buyer order.Buyer,
	items []order.LineItem,
	discount pricing.DiscountPercent,
) (CreateRegularOrderCommand, error) {
	cmd := CreateRegularOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setBuyer(buyer),
		cmd.setPayload(items, discount),
	); err != nil {
		return CreateRegularOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateRegularOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateRegularOrderCommandIsNotConstructed)
}

func (c CreateRegularOrderCommand) Buyer() order.Buyer {
	return c.buyer
}

func (c CreateRegularOrderCommand) Payload() *order.RegularPayload {
	return c.payload
}

func (c *CreateRegularOrderCommand) setBuyer(buyer order.Buyer) error {
	if err := buyer.Validate(); err != nil {
		return err
	}
	c.buyer = buyer
	return nil
}

func (c *CreateRegularOrderCommand) setPayload(items []order.LineItem, discount pricing.DiscountPercent) error {
	payload, err := order.NewRegularPayload(items, discount)
	if err != nil {
		return err
	}
	c.payload = payload
	return nil
}
