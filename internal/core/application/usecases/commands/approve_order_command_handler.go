package commands

import (
	"context"
	"time"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
)

type ApproveOrderCommandHandler struct {
	mutator orderMutator
}

// NewApproveOrderCommandHandler uses the system clock when clock is nil.
func NewApproveOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher *EventPublisher,
	clock ports.Clock,
) ApproveOrderCommandHandler {
	return ApproveOrderCommandHandler{mutator: newOrderMutator(uowFactory, publisher, clock)}
}

// Handle approves a pending order. Without override the payment must be verified.
func (h *ApproveOrderCommandHandler) Handle(ctx context.Context, cmd ApproveOrderCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return h.mutator.mutate(ctx, cmd.Number(), loadActive, func(o *order.Order, now time.Time) error {
		return o.Approve(cmd.Actor(), cmd.Override(), now)
	})
}
