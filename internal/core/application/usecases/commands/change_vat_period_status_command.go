package commands

import (
	"errors"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/vat"
	"empi/internal/pkg/guard"
)

var ErrChangeVATPeriodStatusCommandIsNotConstructed = errors.New(
	"ChangeVATPeriodStatusCommand must be created via NewChangeVATPeriodStatusCommand constructor",
)

// ChangeVATPeriodStatusCommand moves a period forward: submitted, paid or
// archived.
type ChangeVATPeriodStatusCommand struct { //nolint:recvcheck //using for validation
	periodID kernel.UUID
	status   vat.Status

	guard guard.ConstructorGuard
}

func NewChangeVATPeriodStatusCommand(periodID kernel.UUID, status string) (ChangeVATPeriodStatusCommand, error) {
	s, err := vat.ParseStatus(status)
	if err = errors.Join(periodID.Validate(), err); err != nil {
		return ChangeVATPeriodStatusCommand{}, err
	}
	return ChangeVATPeriodStatusCommand{periodID: periodID, status: s, guard: guard.NewConstructorGuard()}, nil
}

func (c ChangeVATPeriodStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeVATPeriodStatusCommandIsNotConstructed)
}

func (c ChangeVATPeriodStatusCommand) PeriodID() kernel.UUID {
	return c.periodID
}

func (c ChangeVATPeriodStatusCommand) Status() vat.Status {
	return c.status
}
