package commands

import (
	"context"
	"time"

	"empi/internal/core/domain/model/vat"
	"empi/internal/core/domain/services"
	"empi/internal/core/ports"
	"empi/internal/pkg/metrics"

	"github.com/rs/zerolog"
)

// ReconcileVATPeriodsCommandHandler reads periods, revenue and expenses in
// one read-only snapshot, recomputes in memory and writes the results in a
// second transaction. Periods changed in between fail the version check and
// the whole reconciliation is reported as a concurrent modification.
type ReconcileVATPeriodsCommandHandler struct {
	uowFactory AccountingUoWFactory
	accountant services.VATAccountant
	clock      ports.Clock
	logger     zerolog.Logger
}

// NewReconcileVATPeriodsCommandHandler uses the system clock when clock is nil.
func NewReconcileVATPeriodsCommandHandler(
	uowFactory AccountingUoWFactory,
	accountant services.VATAccountant,
	clock ports.Clock,
	logger zerolog.Logger,
) ReconcileVATPeriodsCommandHandler {
	if clock == nil {
		clock = ports.SystemClock()
	}
	return ReconcileVATPeriodsCommandHandler{
		uowFactory: uowFactory,
		accountant: accountant,
		clock:      clock,
		logger:     logger.With().Str("component", "vat_reconcile").Logger(),
	}
}

// Handle recomputes the selected periods from the ledger and returns those
// whose totals changed.
func (h *ReconcileVATPeriodsCommandHandler) Handle(ctx context.Context, cmd ReconcileVATPeriodsCommand) ([]*vat.Period, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	periods, ledger, err := h.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, nil
	}

	changed, err := h.accountant.Reconcile(periods, ledger, h.clock.Now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	periodRepo := uow.VATPeriodRepository()
	for _, p := range changed {
		if err = periodRepo.Update(ctx, p); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.VATRecomputationsTotal.WithLabelValues(cmd.Trigger()).Add(float64(len(changed)))
	h.logger.Info().Str("trigger", cmd.Trigger()).Int("periods", len(changed)).Msg("vat periods reconciled")
	return changed, nil
}

func (h *ReconcileVATPeriodsCommandHandler) snapshot(ctx context.Context) ([]*vat.Period, services.Ledger, error) {
	uow := h.uowFactory.Create()
	if err := uow.BeginSnapshot(ctx); err != nil {
		return nil, services.Ledger{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	periods, err := uow.VATPeriodRepository().List(ctx, false)
	if err != nil {
		return nil, services.Ledger{}, err
	}
	if len(periods) == 0 {
		return nil, services.Ledger{}, nil
	}

	from, to := span(periods)
	ledger, err := loadLedger(ctx, uow, from, to)
	if err != nil {
		return nil, services.Ledger{}, err
	}
	return periods, ledger, nil
}

// span is the smallest range covering every period window.
func span(periods []*vat.Period) (time.Time, time.Time) {
	from, to := periods[0].Window().Start, periods[0].Window().End
	for _, p := range periods[1:] {
		if w := p.Window(); w.Start.Before(from) {
			from = w.Start
		}
		if w := p.Window(); w.End.After(to) {
			to = w.End
		}
	}
	return from, to
}
