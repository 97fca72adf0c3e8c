package commands

import (
	"context"
	"time"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
)

type VerifyPaymentCommandHandler struct {
	mutator orderMutator
}

func NewVerifyPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	publisher *EventPublisher,
	clock ports.Clock,
) VerifyPaymentCommandHandler {
	return VerifyPaymentCommandHandler{mutator: newOrderMutator(uowFactory, publisher, clock)}
}

// Handle marks the uploaded proof as verified.
func (h *VerifyPaymentCommandHandler) Handle(ctx context.Context, cmd VerifyPaymentCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return h.mutator.mutate(ctx, cmd.Number(), loadActive, func(o *order.Order, now time.Time) error {
		return o.VerifyPayment(cmd.Actor(), now)
	})
}
