package commands

import (
	"context"
	"time"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
)

type RestoreOrderCommandHandler struct {
	mutator orderMutator
}

// NewRestoreOrderCommandHandler uses the system clock when clock is nil.
func NewRestoreOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher *EventPublisher,
	clock ports.Clock,
) RestoreOrderCommandHandler {
	return RestoreOrderCommandHandler{mutator: newOrderMutator(uowFactory, publisher, clock)}
}

// Handle brings a soft-deleted order back.
func (h *RestoreOrderCommandHandler) Handle(ctx context.Context, cmd RestoreOrderCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return h.mutator.mutate(ctx, cmd.Number(), loadIncludingDeleted, func(o *order.Order, now time.Time) error {
		return o.Restore(cmd.Actor(), now)
	})
}
