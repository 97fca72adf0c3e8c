package commands

import (
	"errors"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/quote"
	"empi/internal/pkg/errs"
)

var ErrSubmitQuoteCommandIsNotConstructed = errors.New(
	"SubmitQuoteCommand must be created via NewSubmitQuoteCommand constructor",
)

// SubmitQuoteCommand appends a proposal to a custom order. Admins send
// offers, customers send counter-offers.
type SubmitQuoteCommand struct { //nolint:recvcheck //using for validation
	orderTarget
	terms quote.Terms
}

func NewSubmitQuoteCommand(number string, sender kernel.Actor, terms quote.Terms) (SubmitQuoteCommand, error) {
	target, err := newOrderTarget(number, sender)
	cmd := SubmitQuoteCommand{orderTarget: target, terms: terms}
	if err = errors.Join(err, cmd.checkSender(sender)); err != nil {
		return SubmitQuoteCommand{}, err
	}

	return cmd, nil
}

func (c SubmitQuoteCommand) Validate() error {
	return c.guard.Validate(ErrSubmitQuoteCommandIsNotConstructed)
}

func (c SubmitQuoteCommand) Terms() quote.Terms {
	return c.terms
}

func (c *SubmitQuoteCommand) checkSender(sender kernel.Actor) error {
	if sender.Role != kernel.RoleAdmin && sender.Role != kernel.RoleCustomer {
		return errs.NewValueIsInvalidError("senderRole")
	}
	return nil
}
