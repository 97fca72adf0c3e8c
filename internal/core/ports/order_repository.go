package ports

import (
	"context"
	"time"

	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/vat"
)

// OrderFilter narrows ListOrders. Nil fields do not filter. Deleted orders
// are hidden unless IncludeDeleted is set.
type OrderFilter struct {
	Status         *order.Status
	Handler        *order.Handler
	Origin         *order.Origin
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// OrderRepository persists Order aggregates. Every read applies the
// visibility filter: soft-deleted orders are only returned by the
// IncludingDeleted variants.
type OrderRepository interface {
	// Add inserts a new order at version 0.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order only if the stored version still equals
	// aggregate.Version(), then increments it. A stale version yields
	// errs.ErrConcurrentModification; a missing row errs.ErrObjectNotFound.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns an active order or errs.ErrObjectNotFound.
	Get(ctx context.Context, number order.Number) (*order.Order, error)

	// GetIncludingDeleted also returns soft-deleted orders. Used by restore.
	GetIncludingDeleted(ctx context.Context, number order.Number) (*order.Order, error)

	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)

	// ListOverdue returns active in-progress custom orders whose deadline
	// is before now and has not been reported yet.
	ListOverdue(ctx context.Context, now time.Time) ([]*order.Order, error)

	// ListRevenue returns the VAT-relevant part of every completed order
	// recognized in [from, to), deleted or not.
	ListRevenue(ctx context.Context, from, to time.Time) ([]vat.Revenue, error)
}
