package commands

import (
	"context"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/services"
	"empi/internal/core/ports"
	"empi/internal/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
)

// SubmitQuoteCommandHandler prices and stores a proposal and notifies the
// counter-party. The order's quote counter is bumped in the same
// transaction, so a proposal never lands on an order that moved past
// negotiation concurrently. A version conflict on the order, typically a
// racing acceptance, is retried against the fresh order, so the proposal is
// stored unless the order really left negotiation.
type SubmitQuoteCommandHandler struct {
	uowFactory NegotiationUoWFactory
	negotiator services.Negotiator
	publisher  *EventPublisher
	clock      ports.Clock
	newBackOff func() backoff.BackOff
}

// NewSubmitQuoteCommandHandler retries conflicts with DefaultConflictBackOff.
func NewSubmitQuoteCommandHandler(
	uowFactory NegotiationUoWFactory,
	publisher *EventPublisher,
	clock ports.Clock,
) SubmitQuoteCommandHandler {
	if clock == nil {
		clock = ports.SystemClock()
	}
	return SubmitQuoteCommandHandler{
		uowFactory: uowFactory,
		negotiator: services.NewNegotiator(),
		publisher:  publisher,
		clock:      clock,
		newBackOff: DefaultConflictBackOff,
	}
}

// WithBackOff replaces the retry policy. Used by tests.
func (h SubmitQuoteCommandHandler) WithBackOff(newBackOff func() backoff.BackOff) SubmitQuoteCommandHandler {
	h.newBackOff = newBackOff
	return h
}

// Handle stores the proposal and notifies whoever has to answer it.
func (h *SubmitQuoteCommandHandler) Handle(ctx context.Context, cmd SubmitQuoteCommand) (QuoteResult, error) {
	if err := cmd.Validate(); err != nil {
		return QuoteResult{}, err
	}

	// Every attempt stores the same proposal id; a rolled back attempt
	// leaves nothing behind.
	id := kernel.NewUUID()
	var res QuoteResult
	err := retryOnConflict(ctx, h.newBackOff, func() error {
		var err error
		res, err = h.submit(ctx, cmd, id)
		return err
	}, func(int, error) {
		metrics.ConflictRetriesTotal.WithLabelValues("submit_quote").Inc()
	})
	if err != nil {
		return QuoteResult{}, err
	}

	p, o := res.Proposal, res.Order
	res.Warnings = h.publisher.PublishOrderEvents(ctx, o.PullEvents())
	if w := h.publisher.Notify(ctx, ports.Notification{
		Event:         NotifyQuoteSubmitted,
		RecipientRole: p.CounterParty(),
		OrderNumber:   o.Number(),
		Amount:        p.Breakdown().Total,
		Details:       map[string]string{"quoteId": p.ID().String(), "sender": p.SenderRole().String()},
	}); w != "" {
		res.Warnings = append(res.Warnings, w)
	}
	return res, nil
}

func (h *SubmitQuoteCommandHandler) submit(ctx context.Context, cmd SubmitQuoteCommand, id kernel.UUID) (QuoteResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return QuoteResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.Number())
	if err != nil {
		return QuoteResult{}, err
	}

	p, err := h.negotiator.Propose(o, id, cmd.Actor(), cmd.Terms(), h.clock.Now())
	if err != nil {
		return QuoteResult{}, err
	}

	if err = uow.QuoteRepository().Add(ctx, p); err != nil {
		return QuoteResult{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return QuoteResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return QuoteResult{}, err
	}

	return QuoteResult{Proposal: p, Order: o}, nil
}
