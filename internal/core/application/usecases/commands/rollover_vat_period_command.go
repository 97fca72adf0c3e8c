package commands

import (
	"errors"
	"strings"
	"time"

	"empi/internal/pkg/errs"
	"empi/internal/pkg/guard"
)

var ErrRolloverVATPeriodCommandIsNotConstructed = errors.New(
	"RolloverVATPeriodCommand must be created via NewRolloverVATPeriodCommand constructor",
)

// Triggers label what started a VAT recomputation.
const (
	TriggerSchedule = "schedule"
	TriggerCLI      = "cli"
	TriggerHTTP     = "http"
)

// RolloverVATPeriodCommand opens or refreshes the period containing At and
// closes every earlier period still active. A zero At means now.
type RolloverVATPeriodCommand struct { //nolint:recvcheck //using for validation
	at      time.Time
	trigger string

	guard guard.ConstructorGuard
}

func NewRolloverVATPeriodCommand(at time.Time, trigger string) (RolloverVATPeriodCommand, error) {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return RolloverVATPeriodCommand{}, errs.NewValueIsRequiredError("trigger")
	}
	return RolloverVATPeriodCommand{at: at, trigger: trigger, guard: guard.NewConstructorGuard()}, nil
}

func (c RolloverVATPeriodCommand) Validate() error {
	return c.guard.Validate(ErrRolloverVATPeriodCommandIsNotConstructed)
}

func (c RolloverVATPeriodCommand) At() time.Time {
	return c.at
}

func (c RolloverVATPeriodCommand) Trigger() string {
	return c.trigger
}
