package commands

import (
	"context"

	"empi/internal/core/domain/services"
	"empi/internal/core/ports"
	"empi/internal/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
)

// CompleteOrderCommandHandler records delivery and, in the same
// transaction, books the order's output VAT into the open period holding the
// completion instant. Two deliveries landing in one period race on its
// version; the loser is retried against the fresh period. When no period is
// open yet, the next rollover derives the order from the ledger.
type CompleteOrderCommandHandler struct {
	uowFactory CompletionUoWFactory
	accountant services.VATAccountant
	publisher  *EventPublisher
	clock      ports.Clock
	newBackOff func() backoff.BackOff
}

// NewCompleteOrderCommandHandler retries conflicts with DefaultConflictBackOff.
func NewCompleteOrderCommandHandler(
	uowFactory CompletionUoWFactory,
	accountant services.VATAccountant,
	publisher *EventPublisher,
	clock ports.Clock,
) CompleteOrderCommandHandler {
	if clock == nil {
		clock = ports.SystemClock()
	}
	return CompleteOrderCommandHandler{
		uowFactory: uowFactory,
		accountant: accountant,
		publisher:  publisher,
		clock:      clock,
		newBackOff: DefaultConflictBackOff,
	}
}

// WithBackOff replaces the retry policy. Used by tests.
func (h CompleteOrderCommandHandler) WithBackOff(newBackOff func() backoff.BackOff) CompleteOrderCommandHandler {
	h.newBackOff = newBackOff
	return h
}

// Handle completes the order; logistics staff only.
func (h *CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	var res OrderResult
	err := retryOnConflict(ctx, h.newBackOff, func() error {
		var err error
		res, err = h.complete(ctx, cmd)
		return err
	}, func(int, error) {
		metrics.ConflictRetriesTotal.WithLabelValues("complete_order").Inc()
	})
	if err != nil {
		return OrderResult{}, err
	}

	res.Warnings = h.publisher.PublishOrderEvents(ctx, res.Order.PullEvents())
	return res, nil
}

func (h *CompleteOrderCommandHandler) complete(ctx context.Context, cmd CompleteOrderCommand) (OrderResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return OrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.Number())
	if err != nil {
		return OrderResult{}, err
	}

	now := h.clock.Now()
	if err = o.Complete(cmd.Actor(), now); err != nil {
		return OrderResult{}, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return OrderResult{}, err
	}

	periodRepo := uow.VATPeriodRepository()
	period, err := periodRepo.FindByKey(ctx, h.accountant.TargetKey(*o.CompletedAt()))
	if err != nil {
		return OrderResult{}, err
	}
	booked, err := h.accountant.RecognizeOrder(period, o, now)
	if err != nil {
		return OrderResult{}, err
	}
	if booked {
		if err = periodRepo.Update(ctx, period); err != nil {
			return OrderResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return OrderResult{}, err
	}

	return OrderResult{Order: o}, nil
}
