package commands

import (
	"errors"
	"time"

	"empi/internal/pkg/errs"
	"empi/internal/pkg/guard"
)

var ErrNotifyOverdueOrdersCommandIsNotConstructed = errors.New(
	"NotifyOverdueOrdersCommand must be created via NewNotifyOverdueOrdersCommand constructor",
)

// NotifyOverdueOrdersCommand alerts production about custom orders whose
// deadline passed and was not reported yet. A positive lookback skips
// deadlines older than that; zero reports every unreported one.
type NotifyOverdueOrdersCommand struct { //nolint:recvcheck //using for validation
	lookback time.Duration

	guard guard.ConstructorGuard
}

func NewNotifyOverdueOrdersCommand(lookback time.Duration) (NotifyOverdueOrdersCommand, error) {
	if lookback < 0 {
		return NotifyOverdueOrdersCommand{}, errs.NewValueIsOutOfRangeError("lookback", lookback, 0, "unbounded")
	}
	return NotifyOverdueOrdersCommand{lookback: lookback, guard: guard.NewConstructorGuard()}, nil
}

func (c NotifyOverdueOrdersCommand) Validate() error {
	return c.guard.Validate(ErrNotifyOverdueOrdersCommandIsNotConstructed)
}

func (c NotifyOverdueOrdersCommand) Lookback() time.Duration {
	return c.lookback
}
