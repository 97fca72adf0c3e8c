package commands

import (
	"errors"
	"strings"

	"empi/internal/core/domain/model/kernel"
)

var ErrRejectOrderCommandIsNotConstructed = errors.New(
	"RejectOrderCommand must be created via NewRejectOrderCommand constructor",
)

// RejectOrderCommand declines an order before it reaches logistics.
type RejectOrderCommand struct { //nolint:recvcheck //using for validation
	orderTarget
	reason string
}

func NewRejectOrderCommand(number string, actor kernel.Actor, reason string) (RejectOrderCommand, error) {
	target, err := newOrderTarget(number, actor)
	if err != nil {
		return RejectOrderCommand{}, err
	}

	return RejectOrderCommand{orderTarget: target, reason: strings.TrimSpace(reason)}, nil
}

func (c RejectOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectOrderCommandIsNotConstructed)
}

func (c RejectOrderCommand) Reason() string {
	return c.reason
}
