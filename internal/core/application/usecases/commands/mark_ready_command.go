package commands

import (
	"errors"

	"empi/internal/core/domain/model/kernel"
)

var ErrMarkReadyCommandIsNotConstructed = errors.New(
	"MarkReadyCommand must be created via NewMarkReadyCommand constructor",
)

// MarkReadyCommand finishes production and hands the order to logistics.
type MarkReadyCommand struct { //nolint:recvcheck //using for validation
	orderTarget
}

func NewMarkReadyCommand(number string, actor kernel.Actor) (MarkReadyCommand, error) {
	target, err := newOrderTarget(number, actor)
	if err != nil {
		return MarkReadyCommand{}, err
	}

	return MarkReadyCommand{orderTarget: target}, nil
}

func (c MarkReadyCommand) Validate() error {
	return c.guard.Validate(ErrMarkReadyCommandIsNotConstructed)
}
