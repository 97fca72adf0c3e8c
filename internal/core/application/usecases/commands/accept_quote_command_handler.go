package commands

import (
	"context"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/quote"
	"empi/internal/core/domain/services"
	"empi/internal/core/ports"
	"empi/internal/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// AcceptQuoteCommandHandler copies an accepted proposal's terms onto the
// order and moves the final flag to it, all in one transaction. When two
// acceptances race, the loser sees a version conflict and is retried with
// exponential backoff, so the last acceptance to commit wins.
type AcceptQuoteCommandHandler struct {
	uowFactory NegotiationUoWFactory
	negotiator services.Negotiator
	publisher  *EventPublisher
	clock      ports.Clock
	newBackOff func() backoff.BackOff
	logger     zerolog.Logger
}

// NewAcceptQuoteCommandHandler retries conflicts with DefaultConflictBackOff.
func NewAcceptQuoteCommandHandler(
	uowFactory NegotiationUoWFactory,
	publisher *EventPublisher,
	clock ports.Clock,
	logger zerolog.Logger,
) AcceptQuoteCommandHandler {
	if clock == nil {
		clock = ports.SystemClock()
	}
	return AcceptQuoteCommandHandler{
		uowFactory: uowFactory,
		negotiator: services.NewNegotiator(),
		publisher:  publisher,
		clock:      clock,
		newBackOff: DefaultConflictBackOff,
		logger:     logger.With().Str("component", "accept_quote").Logger(),
	}
}

// WithBackOff replaces the retry policy. Used by tests.
func (h AcceptQuoteCommandHandler) WithBackOff(newBackOff func() backoff.BackOff) AcceptQuoteCommandHandler {
	h.newBackOff = newBackOff
	return h
}

// Handle accepts the proposal, retrying while another acceptance wins the
// version check.
func (h *AcceptQuoteCommandHandler) Handle(ctx context.Context, cmd AcceptQuoteCommand) (QuoteResult, error) {
	if err := cmd.Validate(); err != nil {
		return QuoteResult{}, err
	}

	var res QuoteResult
	err := retryOnConflict(ctx, h.newBackOff, func() error {
		var err error
		res, err = h.accept(ctx, cmd)
		return err
	}, func(attempt int, err error) {
		metrics.QuoteAcceptRetriesTotal.Inc()
		h.logger.Debug().Err(err).Int("attempt", attempt).Str("order_number", cmd.Number().String()).Msg("retrying quote acceptance")
	})
	if err != nil {
		return QuoteResult{}, err
	}

	res.Warnings = h.publisher.PublishOrderEvents(ctx, res.Order.PullEvents())
	return res, nil
}

func (h *AcceptQuoteCommandHandler) accept(ctx context.Context, cmd AcceptQuoteCommand) (QuoteResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return QuoteResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	quoteRepo := uow.QuoteRepository()

	o, err := orderRepo.Get(ctx, cmd.Number())
	if err != nil {
		return QuoteResult{}, err
	}
	p, err := quoteRepo.Get(ctx, cmd.QuoteID())
	if err != nil {
		return QuoteResult{}, err
	}
	previous, err := quoteRepo.FindFinal(ctx, cmd.Number())
	if err != nil {
		return QuoteResult{}, err
	}

	if err = h.negotiator.Accept(o, p, previous, cmd.Actor(), h.clock.Now()); err != nil {
		return QuoteResult{}, err
	}

	if err = h.persist(ctx, orderRepo, quoteRepo, o, p, previous); err != nil {
		return QuoteResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return QuoteResult{}, err
	}

	return QuoteResult{Proposal: p, Order: o}, nil
}

// persist writes the order first: its version check serializes racing
// acceptances. The old final flag is cleared before the new one is set, so
// the one-final-per-order index holds at every statement.
func (h *AcceptQuoteCommandHandler) persist(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	quoteRepo ports.QuoteRepository,
	o *order.Order,
	p, previous *quote.Proposal,
) error {
	if err := orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if previous != nil && !previous.ID().IsEqual(p.ID()) {
		if err := quoteRepo.UpdateFinal(ctx, previous); err != nil {
			return err
		}
	}
	return quoteRepo.UpdateFinal(ctx, p)
}
