package commands

import (
	"errors"

	"empi/internal/core/domain/model/kernel"
)

var ErrStartProductionCommandIsNotConstructed = errors.New(
	"StartProductionCommand must be created via NewStartProductionCommand constructor",
)

// StartProductionCommand moves an approved custom order with a deadline into
// production.
type StartProductionCommand struct { //nolint:recvcheck //using for validation
	orderTarget
}

func NewStartProductionCommand(number string, actor kernel.Actor) (StartProductionCommand, error) {
	target, err := newOrderTarget(number, actor)
	if err != nil {
		return StartProductionCommand{}, err
	}

	return StartProductionCommand{orderTarget: target}, nil
}

func (c StartProductionCommand) Validate() error {
	return c.guard.Validate(ErrStartProductionCommandIsNotConstructed)
}
