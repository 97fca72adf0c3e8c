package commands

import (
	"context"
	"time"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/services"
	"empi/internal/core/ports"
)

// MarkReadyCommandHandler runs the production to logistics handoff. Status,
// handler and handoff time are written in a single conditional update.
type MarkReadyCommandHandler struct {
	mutator     orderMutator
	coordinator services.HandoffCoordinator
}

// NewMarkReadyCommandHandler uses the system clock when clock is nil.
func NewMarkReadyCommandHandler(
	uowFactory OrderUoWFactory,
	publisher *EventPublisher,
	clock ports.Clock,
) MarkReadyCommandHandler {
	return MarkReadyCommandHandler{
		mutator:     newOrderMutator(uowFactory, publisher, clock),
		coordinator: services.NewHandoffCoordinator(),
	}
}

// Handle hands a verified order in production to logistics.
func (h *MarkReadyCommandHandler) Handle(ctx context.Context, cmd MarkReadyCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return h.mutator.mutate(ctx, cmd.Number(), loadActive, func(o *order.Order, now time.Time) error {
		return h.coordinator.Handoff(o, cmd.Actor(), now)
	})
}
