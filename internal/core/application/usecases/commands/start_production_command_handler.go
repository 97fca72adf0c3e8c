package commands

import (
	"context"
	"time"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
)

type StartProductionCommandHandler struct {
	mutator orderMutator
}

// NewStartProductionCommandHandler uses the system clock when clock is nil.
func NewStartProductionCommandHandler(
	uowFactory OrderUoWFactory,
	publisher *EventPublisher,
	clock ports.Clock,
) StartProductionCommandHandler {
	return StartProductionCommandHandler{mutator: newOrderMutator(uowFactory, publisher, clock)}
}

// Handle starts production on an approved custom order that has a timer.
func (h *StartProductionCommandHandler) Handle(ctx context.Context, cmd StartProductionCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return h.mutator.mutate(ctx, cmd.Number(), loadActive, func(o *order.Order, now time.Time) error {
		return o.StartProduction(cmd.Actor(), now)
	})
}
