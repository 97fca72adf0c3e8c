package commands

import (
	"context"
	"time"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
)

type CancelOrderCommandHandler struct {
	mutator orderMutator
}

func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher *EventPublisher,
	clock ports.Clock,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{mutator: newOrderMutator(uowFactory, publisher, clock)}
}

// Handle cancels the order with the command note.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return h.mutator.mutate(ctx, cmd.Number(), loadActive, func(o *order.Order, now time.Time) error {
		return o.Cancel(cmd.Actor(), cmd.Reason(), now)
	})
}
