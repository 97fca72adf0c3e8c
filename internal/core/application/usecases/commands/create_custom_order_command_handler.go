package commands

import (
	"context"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
)

type CreateCustomOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	numbers    ports.OrderNumberGenerator
	publisher  *EventPublisher
	clock      ports.Clock
}

func NewCreateCustomOrderCommandHandler(
	uowFactory OrderUoWFactory,
	numbers ports.OrderNumberGenerator,
	publisher *EventPublisher,
	clock ports.Clock,
) CreateCustomOrderCommandHandler {
	if clock == nil {
		clock = ports.SystemClock()
	}
	return CreateCustomOrderCommandHandler{
		uowFactory: uowFactory,
		numbers:    numbers,
		publisher:  publisher,
		clock:      clock,
	}
}

// Handle opens an unpriced custom order under a fresh order number.
func (h *CreateCustomOrderCommandHandler) Handle(ctx context.Context, cmd CreateCustomOrderCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	o, err := order.NewCustomOrder(h.numbers.Next(), cmd.Buyer(), cmd.Payload(), h.clock.Now())
	if err != nil {
		return OrderResult{}, err
	}

	return addOrder(ctx, h.uowFactory, h.publisher, o)
}
