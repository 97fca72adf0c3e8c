package queries

import (
	"errors"

	"empi/internal/pkg/guard"
)

var ErrListVATPeriodsQueryIsNotConstructed = errors.New(
	"ListVATPeriodsQuery must be created via NewListVATPeriodsQuery constructor",
)

// ListVATPeriodsQuery lists periods newest first. Archived periods are
// included only on request.
//
//nolint:recvcheck //using for validation
type ListVATPeriodsQuery struct {
	includeArchived bool

	guard guard.ConstructorGuard
}

func NewListVATPeriodsQuery(includeArchived bool) ListVATPeriodsQuery {
	return ListVATPeriodsQuery{includeArchived: includeArchived, guard: guard.NewConstructorGuard()}
}

func (q ListVATPeriodsQuery) Validate() error {
	return q.guard.Validate(ErrListVATPeriodsQueryIsNotConstructed)
}
