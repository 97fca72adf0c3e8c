package queries

import (
	"errors"

	"empi/internal/core/domain/model/order"
	"empi/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")

// GetOrderQuery reads one visible order by number.
//
//nolint:recvcheck //using for validation
type GetOrderQuery struct {
	number order.Number

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(number string) (GetOrderQuery, error) {
	n, err := order.ParseNumber(number)
	if err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{number: n, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Number() order.Number {
	return q.number
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}
