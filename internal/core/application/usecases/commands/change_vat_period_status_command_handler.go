package commands

import (
	"context"

	"empi/internal/core/domain/model/vat"
	"empi/internal/core/ports"
)

type ChangeVATPeriodStatusCommandHandler struct {
	uowFactory AccountingUoWFactory
	clock      ports.Clock
}

// NewChangeVATPeriodStatusCommandHandler uses the system clock when clock is nil.
func NewChangeVATPeriodStatusCommandHandler(uowFactory AccountingUoWFactory, clock ports.Clock) ChangeVATPeriodStatusCommandHandler {
	if clock == nil {
		clock = ports.SystemClock()
	}
	return ChangeVATPeriodStatusCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle moves a period along its filing lifecycle and returns it as stored.
func (h *ChangeVATPeriodStatusCommandHandler) Handle(ctx context.Context, cmd ChangeVATPeriodStatusCommand) (*vat.Period, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	periodRepo := uow.VATPeriodRepository()
	p, err := periodRepo.Get(ctx, cmd.PeriodID())
	if err != nil {
		return nil, err
	}

	if err = p.MoveTo(cmd.Status(), h.clock.Now()); err != nil {
		return nil, err
	}

	if err = periodRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return p, nil
}
