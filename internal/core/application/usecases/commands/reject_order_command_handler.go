package commands

import (
	"context"
	"time"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
)

type RejectOrderCommandHandler struct {
	mutator orderMutator
}

func NewRejectOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher *EventPublisher,
	clock ports.Clock,
) RejectOrderCommandHandler {
	return RejectOrderCommandHandler{mutator: newOrderMutator(uowFactory, publisher, clock)}
}

// Handle rejects a pending order with the command reason.
func (h *RejectOrderCommandHandler) Handle(ctx context.Context, cmd RejectOrderCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return h.mutator.mutate(ctx, cmd.Number(), loadActive, func(o *order.Order, now time.Time) error {
		return o.Reject(cmd.Actor(), cmd.Reason(), now)
	})
}
