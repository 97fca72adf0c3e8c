package services

import (
	"errors"
	"fmt"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/quote"
	"empi/internal/pkg/errs"
)

// Negotiator runs the quote protocol on custom orders: proposals are
// appended, and acceptance moves the final flag and reprices the order in
// one step.
type Negotiator struct{}

func NewNegotiator() Negotiator {
	return Negotiator{}
}

// Propose creates a proposal on o. The order must still be quotable.
func (Negotiator) Propose(
	o *order.Order,
	id kernel.UUID,
	sender kernel.Actor,
	terms quote.Terms,
	now time.Time,
) (*quote.Proposal, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	p, err := quote.NewProposal(id, o.Number(), sender, terms, now)
	if err != nil {
		return nil, err
	}
	if err := o.RegisterQuote(now); err != nil {
		return nil, err
	}
	return p, nil
}

// Accept applies the acceptance policy and copies p's terms onto o.
// previous is the proposal currently flagged final, if any; its flag is
// cleared. On error none of the three aggregates is modified.
func (Negotiator) Accept(
	o *order.Order,
	p *quote.Proposal,
	previous *quote.Proposal,
	actor kernel.Actor,
	now time.Time,
) error {
	if err := errors.Join(o.Validate(), p.Validate()); err != nil {
		return err
	}
	if p.OrderNumber() != o.Number() {
		return errs.NewValueIsInvalidErrorWithCause(
			"quoteId", fmt.Errorf("proposal %s belongs to order %s", p.ID(), p.OrderNumber()),
		)
	}
	if err := p.CanBeAcceptedBy(actor); err != nil {
		return err
	}
	if err := o.ApplyAcceptedQuote(actor, p.Terms(), now); err != nil {
		return err
	}

	if previous != nil && !previous.ID().IsEqual(p.ID()) {
		previous.ClearFinal()
	}
	p.MarkFinal()
	return nil
}
