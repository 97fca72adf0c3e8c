package commands

import (
	"errors"

	"empi/internal/core/domain/model/kernel"
)

var ErrCompleteOrderCommandIsNotConstructed = errors.New(
	"CompleteOrderCommand must be created via NewCompleteOrderCommand constructor",
)

// CompleteOrderCommand records delivery by logistics. Completion is the
// moment the order's VAT is recognized.
type CompleteOrderCommand struct { //nolint:recvcheck //using for validation
	orderTarget
}

func NewCompleteOrderCommand(number string, actor kernel.Actor) (CompleteOrderCommand, error) {
	target, err := newOrderTarget(number, actor)
	if err != nil {
		return CompleteOrderCommand{}, err
	}

	return CompleteOrderCommand{orderTarget: target}, nil
}

func (c CompleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrCompleteOrderCommandIsNotConstructed)
}
