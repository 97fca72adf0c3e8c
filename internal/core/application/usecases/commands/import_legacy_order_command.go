package commands

import (
	"errors"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/pricing"
	"empi/internal/pkg/guard"
)

var ErrImportLegacyOrderCommandIsNotConstructed = errors.New(
	"ImportLegacyOrderCommand must be created via NewImportLegacyOrderCommand constructor",
)

// ImportLegacyOrderCommand brings one cart order from the previous system
// into the canonical model. An empty number means a new one is generated.
type ImportLegacyOrderCommand struct { //nolint:recvcheck //using for validation
	number  order.Number
	buyer   order.Buyer
	payload *order.RegularPayload
	record  order.LegacyRecord

	guard guard.ConstructorGuard
}

func NewImportLegacyOrderCommand(
	number string,
	buyer order.Buyer,
	items []order.LineItem,
	discount pricing.DiscountPercent,
	record order.LegacyRecord,
) (ImportLegacyOrderCommand, error) {
	cmd := ImportLegacyOrderCommand{record: record, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setNumber(number),
		cmd.setBuyer(buyer),
		cmd.setPayload(items, discount),
	); err != nil {
		return ImportLegacyOrderCommand{}, err
	}

	return cmd, nil
}

func (c ImportLegacyOrderCommand) Validate() error {
	return c.guard.Validate(ErrImportLegacyOrderCommandIsNotConstructed)
}

// Number is empty when the legacy export carried none.
func (c ImportLegacyOrderCommand) Number() order.Number {
	return c.number
}

func (c ImportLegacyOrderCommand) Buyer() order.Buyer {
	return c.buyer
}

func (c ImportLegacyOrderCommand) Payload() *order.RegularPayload {
	return c.payload
}

func (c ImportLegacyOrderCommand) Record() order.LegacyRecord {
	return c.record
}

func (c *ImportLegacyOrderCommand) setNumber(number string) error {
	if number == "" {
		return nil
	}
	n, err := order.ParseNumber(number)
	if err != nil {
		return err
	}
	c.number = n
	return nil
}

func (c *ImportLegacyOrderCommand) setBuyer(buyer order.Buyer) error {
	if err := buyer.Validate(); err != nil {
		return err
	}
	c.buyer = buyer
	return nil
}

func (c *ImportLegacyOrderCommand) setPayload(items []order.LineItem, discount pricing.DiscountPercent) error {
	payload, err := order.NewRegularPayload(items, discount)
	if err != nil {
		return err
	}
	c.payload = payload
	return nil
}
