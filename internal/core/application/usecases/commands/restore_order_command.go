package commands

import (
	"errors"

	"empi/internal/core/domain/model/kernel"
)

var ErrRestoreOrderCommandIsNotConstructed = errors.New(
	"RestoreOrderCommand must be created via NewRestoreOrderCommand constructor",
)

// RestoreOrderCommand brings a soft-deleted order back in whatever state it
// was deleted in.
type RestoreOrderCommand struct { //nolint:recvcheck //using for validation
	orderTarget
}

func NewRestoreOrderCommand(number string, actor kernel.Actor) (RestoreOrderCommand, error) {
	target, err := newOrderTarget(number, actor)
	if err != nil {
		return RestoreOrderCommand{}, err
	}

	return RestoreOrderCommand{orderTarget: target}, nil
}

func (c RestoreOrderCommand) Validate() error {
	return c.guard.Validate(ErrRestoreOrderCommandIsNotConstructed)
}
