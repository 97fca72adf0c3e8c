package commands

import (
	"context"
	"time"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/ports"
)

// OrderResult is what order commands return: the committed aggregate and
// any warnings about side effects that failed after commit.
type OrderResult struct {
	Order    *order.Order
	Warnings []string
}

// Degraded reports whether a side effect of the command failed.
func (r OrderResult) Degraded() bool {
	return len(r.Warnings) > 0
}

// orderMutator loads an order, applies one aggregate method and writes it
// back under the optimistic version check. Events are published only after
// the commit succeeded.
type orderMutator struct {
	uowFactory OrderUoWFactory
	publisher  *EventPublisher
	clock      ports.Clock
}

func newOrderMutator(uowFactory OrderUoWFactory, publisher *EventPublisher, clock ports.Clock) orderMutator {
	if clock == nil {
		clock = ports.SystemClock()
	}
	return orderMutator{uowFactory: uowFactory, publisher: publisher, clock: clock}
}

type loadFunc func(ctx context.Context, repo ports.OrderRepository, number order.Number) (*order.Order, error)

func loadActive(ctx context.Context, repo ports.OrderRepository, number order.Number) (*order.Order, error) {
	return repo.Get(ctx, number)
}

func loadIncludingDeleted(ctx context.Context, repo ports.OrderRepository, number order.Number) (*order.Order, error) {
	return repo.GetIncludingDeleted(ctx, number)
}

func (m orderMutator) mutate(
	ctx context.Context,
	number order.Number,
	load loadFunc,
	apply func(o *order.Order, now time.Time) error,
) (OrderResult, error) {
	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return OrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := load(ctx, orderRepo, number)
	if err != nil {
		return OrderResult{}, err
	}

	if err = apply(o, m.clock.Now()); err != nil {
		return OrderResult{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return OrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return OrderResult{}, err
	}

	return OrderResult{Order: o, Warnings: m.publisher.PublishOrderEvents(ctx, o.PullEvents())}, nil
}
