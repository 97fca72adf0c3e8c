package queries

import (
	"errors"

	"empi/internal/core/domain/model/order"
	"empi/internal/pkg/errs"
	"empi/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New("ListOrdersQuery must be created via NewListOrdersQuery constructor")

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// ListOrdersQuery lists visible orders, newest first. Empty filter values
// match everything.
//
//nolint:recvcheck //using for validation
type ListOrdersQuery struct {
	status  *order.Status
	handler *order.Handler
	origin  *order.Origin
	limit   int
	offset  int

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(status, handler, origin string, limit, offset int) (ListOrdersQuery, error) {
	q := ListOrdersQuery{guard: guard.NewConstructorGuard()}
	err := errors.Join(
		q.setStatus(status),
		q.setHandler(handler),
		q.setOrigin(origin),
		q.setPage(limit, offset),
	)
	if err != nil {
		return ListOrdersQuery{}, err
	}
	return q, nil
}

func (q *ListOrdersQuery) setStatus(s string) error {
	if s == "" {
		return nil
	}
	st, err := order.ParseStatus(s)
	if err != nil {
		return err
	}
	q.status = &st
	return nil
}

func (q *ListOrdersQuery) setHandler(s string) error {
	if s == "" {
		return nil
	}
	h, err := order.ParseHandler(s)
	if err != nil {
		return err
	}
	q.handler = &h
	return nil
}

func (q *ListOrdersQuery) setOrigin(s string) error {
	if s == "" {
		return nil
	}
	o, err := order.ParseOrigin(s)
	if err != nil {
		return err
	}
	q.origin = &o
	return nil
}

func (q *ListOrdersQuery) setPage(limit, offset int) error {
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 0 || limit > MaxListLimit {
		return errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxListLimit)
	}
	if offset < 0 {
		return errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}
	q.limit, q.offset = limit, offset
	return nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}
