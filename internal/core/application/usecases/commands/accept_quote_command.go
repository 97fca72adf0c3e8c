package commands

import (
	"errors"

	"empi/internal/core/domain/model/kernel"
)

var ErrAcceptQuoteCommandIsNotConstructed = errors.New(
	"AcceptQuoteCommand must be created via NewAcceptQuoteCommand constructor",
)

// AcceptQuoteCommand accepts one proposal of an order.
type AcceptQuoteCommand struct { //nolint:recvcheck //using for validation
	orderTarget
	quoteID kernel.UUID
}

func NewAcceptQuoteCommand(number string, quoteID kernel.UUID, actor kernel.Actor) (AcceptQuoteCommand, error) {
	target, err := newOrderTarget(number, actor)
	if err = errors.Join(err, quoteID.Validate()); err != nil {
		return AcceptQuoteCommand{}, err
	}

	return AcceptQuoteCommand{orderTarget: target, quoteID: quoteID}, nil
}

func (c AcceptQuoteCommand) Validate() error {
	return c.guard.Validate(ErrAcceptQuoteCommandIsNotConstructed)
}

func (c AcceptQuoteCommand) QuoteID() kernel.UUID {
	return c.quoteID
}

