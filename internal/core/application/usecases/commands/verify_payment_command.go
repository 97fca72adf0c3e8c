package commands

import (
	"errors"

	"empi/internal/core/domain/model/kernel"
)

var ErrVerifyPaymentCommandIsNotConstructed = errors.New(
	"VerifyPaymentCommand must be created via NewVerifyPaymentCommand constructor",
)

// VerifyPaymentCommand records that an admin checked the attached proof of
// payment.
type VerifyPaymentCommand struct { //nolint:recvcheck //using for validation
	orderTarget
}

func NewVerifyPaymentCommand(number string, actor kernel.Actor) (VerifyPaymentCommand, error) {
	target, err := newOrderTarget(number, actor)
	if err != nil {
		return VerifyPaymentCommand{}, err
	}

	return VerifyPaymentCommand{orderTarget: target}, nil
}

func (c VerifyPaymentCommand) Validate() error {
	return c.guard.Validate(ErrVerifyPaymentCommandIsNotConstructed)
}
