package commands

import (
	"context"
	"time"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
)

// SetDeadlineTimerCommandHandler sets the deadline and advances the order one
// step when its state allows it. The remaining duration rules live on
// order.Timer.
type SetDeadlineTimerCommandHandler struct {
	mutator orderMutator
}

// NewSetDeadlineTimerCommandHandler uses the system clock when clock is nil.
func NewSetDeadlineTimerCommandHandler(
	uowFactory OrderUoWFactory,
	publisher *EventPublisher,
	clock ports.Clock,
) SetDeadlineTimerCommandHandler {
	return SetDeadlineTimerCommandHandler{mutator: newOrderMutator(uowFactory, publisher, clock)}
}

// Handle replaces the production deadline and advances the order one step.
func (h *SetDeadlineTimerCommandHandler) Handle(ctx context.Context, cmd SetDeadlineTimerCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return h.mutator.mutate(ctx, cmd.Number(), loadActive, func(o *order.Order, now time.Time) error {
		return o.SetTimer(cmd.Actor(), cmd.Days(), cmd.Hours(), cmd.Override(), now)
	})
}
