package commands

import (
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/quote"
)

// QuoteResult is returned by the negotiation commands.
type QuoteResult struct {
	Proposal *quote.Proposal
	Order    *order.Order
	Warnings []string
}
