package commands

import (
	"errors"
	"strings"

	"empi/internal/core/domain/model/kernel"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand closes an order and triggers a refund notification.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderTarget
	reason string
}

func NewCancelOrderCommand(number string, actor kernel.Actor, reason string) (CancelOrderCommand, error) {
	target, err := newOrderTarget(number, actor)
	if err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{orderTarget: target, reason: strings.TrimSpace(reason)}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) Reason() string {
	return c.reason
}
