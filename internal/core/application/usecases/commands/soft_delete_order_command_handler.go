package commands

import (
	"context"
	"time"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
)

type SoftDeleteOrderCommandHandler struct {
	mutator orderMutator
}

func NewSoftDeleteOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher *EventPublisher,
	clock ports.Clock,
) SoftDeleteOrderCommandHandler {
	return SoftDeleteOrderCommandHandler{mutator: newOrderMutator(uowFactory, publisher, clock)}
}

// Handle hides the order from every default read.
func (h *SoftDeleteOrderCommandHandler) Handle(ctx context.Context, cmd SoftDeleteOrderCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return h.mutator.mutate(ctx, cmd.Number(), loadActive, func(o *order.Order, now time.Time) error {
		return o.SoftDelete(cmd.Actor(), now)
	})
}
