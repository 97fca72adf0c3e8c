package commands

import (
	"errors"
	"strings"

	"empi/internal/pkg/errs"
	"empi/internal/pkg/guard"
)

var ErrReconcileVATPeriodsCommandIsNotConstructed = errors.New(
	"ReconcileVATPeriodsCommand must be created via NewReconcileVATPeriodsCommand constructor",
)

// ReconcileVATPeriodsCommand recomputes every non-archived period from
// source data.
type ReconcileVATPeriodsCommand struct { //nolint:recvcheck //using for validation
	trigger string

	guard guard.ConstructorGuard
}

func NewReconcileVATPeriodsCommand(trigger string) (ReconcileVATPeriodsCommand, error) {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return ReconcileVATPeriodsCommand{}, errs.NewValueIsRequiredError("trigger")
	}
	return ReconcileVATPeriodsCommand{trigger: trigger, guard: guard.NewConstructorGuard()}, nil
}

func (c ReconcileVATPeriodsCommand) Validate() error {
	return c.guard.Validate(ErrReconcileVATPeriodsCommandIsNotConstructed)
}

func (c ReconcileVATPeriodsCommand) Trigger() string {
	return c.trigger
}
