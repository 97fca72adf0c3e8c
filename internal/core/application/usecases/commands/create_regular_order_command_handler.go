package commands

import (
	"context"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
)

// CreateRegularOrderCommandHandler persists a new cart checkout in pending
// status under a freshly generated order number.
type CreateRegularOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	numbers    ports.OrderNumberGenerator
	publisher  *EventPublisher
	clock      ports.Clock
}

// NewCreateRegularOrderCommandHandler allocates numbers from numbers.
func NewCreateRegularOrderCommandHandler(
	uowFactory OrderUoWFactory,
	numbers ports.OrderNumberGenerator,
	publisher *EventPublisher,
	clock ports.Clock,
) CreateRegularOrderCommandHandler {
	if clock == nil {
		clock = ports.SystemClock()
	}
	return CreateRegularOrderCommandHandler{
		uowFactory: uowFactory,
		numbers:    numbers,
		publisher:  publisher,
		clock:      clock,
	}
}

// Handle prices the cart and stores the new pending order.
func (h *CreateRegularOrderCommandHandler) Handle(ctx context.Context, cmd CreateRegularOrderCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	o, err := order.NewRegularOrder(h.numbers.Next(), cmd.Buyer(), cmd.Payload(), h.clock.Now())
	if err != nil {
		return OrderResult{}, err
	}

	return addOrder(ctx, h.uowFactory, h.publisher, o)
}

func addOrder(ctx context.Context, uowFactory OrderUoWFactory, publisher *EventPublisher, o *order.Order) (OrderResult, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return OrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return OrderResult{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return OrderResult{}, err
	}

	return OrderResult{Order: o, Warnings: publisher.PublishOrderEvents(ctx, o.PullEvents())}, nil
}
