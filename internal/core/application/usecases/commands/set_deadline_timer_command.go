package commands

import (
	"errors"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/pkg/errs"
)

var ErrSetDeadlineTimerCommandIsNotConstructed = errors.New(
	"SetDeadlineTimerCommand must be created via NewSetDeadlineTimerCommand constructor",
)

// SetDeadlineTimerCommand commits a production deadline on a custom order.
// Setting it again replaces the previous deadline.
type SetDeadlineTimerCommand struct { //nolint:recvcheck //using for validation
	orderTarget
	days     int
	hours    int
	override bool
}

func NewSetDeadlineTimerCommand(
	number string,
	actor kernel.Actor,
	days, hours int,
	override bool,
) (SetDeadlineTimerCommand, error) {
	target, err := newOrderTarget(number, actor)
	cmd := SetDeadlineTimerCommand{orderTarget: target, override: override}
	if err = errors.Join(err, cmd.setDuration(days, hours)); err != nil {
		return SetDeadlineTimerCommand{}, err
	}

	return cmd, nil
}

func (c SetDeadlineTimerCommand) Validate() error {
	return c.guard.Validate(ErrSetDeadlineTimerCommandIsNotConstructed)
}

func (c SetDeadlineTimerCommand) Days() int {
	return c.days
}

func (c SetDeadlineTimerCommand) Hours() int {
	return c.hours
}

func (c SetDeadlineTimerCommand) Override() bool {
	return c.override
}

func (c *SetDeadlineTimerCommand) setDuration(days, hours int) error {
	if days < 0 {
		return errs.NewValueIsOutOfRangeError("days", days, 0, 30)
	}
	if hours < 0 {
		return errs.NewValueIsOutOfRangeError("hours", hours, 0, "unbounded")
	}
	c.days = days
	c.hours = hours
	return nil
}
