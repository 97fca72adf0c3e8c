package commands

import (
	"errors"

	"empi/internal/core/domain/model/kernel"
)

var ErrSoftDeleteOrderCommandIsNotConstructed = errors.New(
	"SoftDeleteOrderCommand must be created via NewSoftDeleteOrderCommand constructor",
)

// SoftDeleteOrderCommand hides an order from normal reads.
type SoftDeleteOrderCommand struct { //nolint:recvcheck //using for validation
	orderTarget
}

func NewSoftDeleteOrderCommand(number string, actor kernel.Actor) (SoftDeleteOrderCommand, error) {
	target, err := newOrderTarget(number, actor)
	if err != nil {
		return SoftDeleteOrderCommand{}, err
	}

	return SoftDeleteOrderCommand{orderTarget: target}, nil
}

func (c SoftDeleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrSoftDeleteOrderCommandIsNotConstructed)
}
