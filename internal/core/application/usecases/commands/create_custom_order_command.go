package commands

import (
	"errors"

	"empi/internal/core/domain/model/order"
	"empi/internal/pkg/guard"
)

var ErrCreateCustomOrderCommandIsNotConstructed = errors.New(
	"CreateCustomOrderCommand must be created via NewCreateCustomOrderCommand constructor",
)

// CreateCustomOrderCommand opens a bespoke request. It has no price until a
// quote is accepted.
type CreateCustomOrderCommand struct { //nolint:recvcheck //using for validation
	buyer   order.Buyer
	payload *order.CustomPayload

	guard guard.ConstructorGuard
}

func NewCreateCustomOrderCommand(buyer order.Buyer, description string, quantity int) (CreateCustomOrderCommand, error) {
	cmd := CreateCustomOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setBuyer(buyer),
		cmd.setPayload(description, quantity),
	); err != nil {
		return CreateCustomOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateCustomOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateCustomOrderCommandIsNotConstructed)
}

func (c CreateCustomOrderCommand) Buyer() order.Buyer {
	return c.buyer
}

func (c CreateCustomOrderCommand) Payload() *order.CustomPayload {
	return c.payload
}

func (c *CreateCustomOrderCommand) setBuyer(buyer order.Buyer) error {
	if err := buyer.Validate(); err != nil {
		return err
	}
	c.buyer = buyer
	return nil
}

func (c *CreateCustomOrderCommand) setPayload(description string, quantity int) error {
	payload, err := order.NewCustomPayload(description, quantity)
	if err != nil {
		return err
	}
	c.payload = payload
	return nil
}
