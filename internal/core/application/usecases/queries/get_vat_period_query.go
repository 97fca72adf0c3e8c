package queries

import (
	"errors"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/pkg/guard"
)

var ErrGetVATPeriodQueryIsNotConstructed = errors.New("GetVATPeriodQuery must be created via NewGetVATPeriodQuery constructor")

//nolint:recvcheck //using for validation
type GetVATPeriodQuery struct {
	id kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetVATPeriodQuery(id string) (GetVATPeriodQuery, error) {
	periodID, err := kernel.UUIDFromString(id)
	if err != nil {
		return GetVATPeriodQuery{}, err
	}
	return GetVATPeriodQuery{id: periodID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetVATPeriodQuery) Validate() error {
	return q.guard.Validate(ErrGetVATPeriodQueryIsNotConstructed)
}
