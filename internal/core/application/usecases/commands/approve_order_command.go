package commands

import (
	"errors"

	"empi/internal/core/domain/model/kernel"
)

var ErrApproveOrderCommandIsNotConstructed = errors.New(
	"ApproveOrderCommand must be created via NewApproveOrderCommand constructor",
)

// ApproveOrderCommand approves a pending order. Override lets an admin
// approve before the payment is verified.
type ApproveOrderCommand struct { //nolint:recvcheck //using for validation
	orderTarget
	override bool
}

func NewApproveOrderCommand(number string, actor kernel.Actor, override bool) (ApproveOrderCommand, error) {
	target, err := newOrderTarget(number, actor)
	if err != nil {
		return ApproveOrderCommand{}, err
	}

	return ApproveOrderCommand{orderTarget: target, override: override}, nil
}

func (c ApproveOrderCommand) Validate() error {
	return c.guard.Validate(ErrApproveOrderCommandIsNotConstructed)
}

func (c ApproveOrderCommand) Override() bool {
	return c.override
}
