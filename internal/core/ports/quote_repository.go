package ports

import (
	"context"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/quote"
)

// QuoteRepository stores proposals. Proposals are never deleted; the final
// flag is the only column Update may change.
type QuoteRepository interface {
	Add(ctx context.Context, proposal *quote.Proposal) error
	UpdateFinal(ctx context.Context, proposal *quote.Proposal) error
	Get(ctx context.Context, id kernel.UUID) (*quote.Proposal, error)

	// FindFinal returns the accepted proposal of an order, or nil when none
	// has been accepted.
	FindFinal(ctx context.Context, number order.Number) (*quote.Proposal, error)

	// ListByOrder returns proposals oldest first.
	ListByOrder(ctx context.Context, number order.Number) ([]*quote.Proposal, error)
}
