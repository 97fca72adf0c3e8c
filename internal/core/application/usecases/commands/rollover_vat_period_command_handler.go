package commands

import (
	"context"
	"time"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/vat"
	"empi/internal/core/domain/services"
	"empi/internal/core/ports"
	"empi/internal/pkg/metrics"

	"github.com/rs/zerolog"
)

// RolloverVATPeriodCommandHandler is the scheduler entry point of VAT
// accounting. Running it twice for the same instant leaves the periods as
// they were, apart from the recomputation timestamp.
type RolloverVATPeriodCommandHandler struct {
	uowFactory AccountingUoWFactory
	accountant services.VATAccountant
	clock      ports.Clock
	logger     zerolog.Logger
}

// NewRolloverVATPeriodCommandHandler builds the handler shared by the
// scheduler, the CLI and the HTTP surface.
func NewRolloverVATPeriodCommandHandler(
	uowFactory AccountingUoWFactory,
	accountant services.VATAccountant,
	clock ports.Clock,
	logger zerolog.Logger,
) RolloverVATPeriodCommandHandler {
	if clock == nil {
		clock = ports.SystemClock()
	}
	return RolloverVATPeriodCommandHandler{
		uowFactory: uowFactory,
		accountant: accountant,
		clock:      clock,
		logger:     logger.With().Str("component", "vat_rollover").Logger(),
	}
}

// Handle opens or refreshes the period containing the command's instant and
// closes whatever is still open before it.
func (h *RolloverVATPeriodCommandHandler) Handle(ctx context.Context, cmd RolloverVATPeriodCommand) (services.RolloverResult, error) {
	if err := cmd.Validate(); err != nil {
		return services.RolloverResult{}, err
	}

	now := cmd.At()
	if now.IsZero() {
		now = h.clock.Now()
	}
	key := h.accountant.TargetKey(now)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.RolloverResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	periodRepo := uow.VATPeriodRepository()
	target, err := periodRepo.FindByKey(ctx, key)
	if err != nil {
		return services.RolloverResult{}, err
	}
	earlier, err := h.openBefore(ctx, periodRepo, key)
	if err != nil {
		return services.RolloverResult{}, err
	}

	from := vat.WindowFor(key, h.accountant.Location()).Start
	for _, p := range earlier {
		if start := p.Window().Start; start.Before(from) {
			from = start
		}
	}
	to := vat.WindowFor(key, h.accountant.Location()).End
	ledger, err := loadLedger(ctx, uow, from, to)
	if err != nil {
		return services.RolloverResult{}, err
	}

	res, err := h.accountant.Rollover(now, target, earlier, kernel.NewUUID(), ledger)
	if err != nil {
		return services.RolloverResult{}, err
	}

	for _, p := range res.Changed {
		if res.Created && p == res.Target {
			err = periodRepo.Add(ctx, p)
		} else {
			err = periodRepo.Update(ctx, p)
		}
		if err != nil {
			return services.RolloverResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return services.RolloverResult{}, err
	}

	metrics.VATRecomputationsTotal.WithLabelValues(cmd.Trigger()).Add(float64(len(res.Changed)))

	event := h.logger.Info().
		Str("trigger", cmd.Trigger()).
		Str("period", res.Target.Key().String()).
		Bool("created", res.Created).
		Str("output_vat", res.Target.Totals().OutputVAT.String()).
		Str("input_vat", res.Target.Totals().InputVAT.String())
	if len(res.Closed) > 0 {
		closed := make([]string, 0, len(res.Closed))
		for _, p := range res.Closed {
			closed = append(closed, p.Key().String())
		}
		event = event.Strs("closed", closed).Str("closed_status", res.Closed[0].Status().String())
	}
	event.Msg("vat period rolled over")

	return res, nil
}

// openBefore returns the still-active periods older than key. A period left
// open by missed rollovers is closed however far back it lies.
func (h *RolloverVATPeriodCommandHandler) openBefore(
	ctx context.Context,
	repo ports.VATPeriodRepository,
	key vat.Key,
) ([]*vat.Period, error) {
	periods, err := repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	open := make([]*vat.Period, 0, 1)
	for _, p := range periods {
		if p.IsActive() && p.Key().Before(key) {
			open = append(open, p)
		}
	}
	return open, nil
}

// loadLedger reads every revenue and deduction row in [from, to).
func loadLedger(ctx context.Context, uow AccountingUoW, from, to time.Time) (services.Ledger, error) {
	revenue, err := uow.OrderRepository().ListRevenue(ctx, from, to)
	if err != nil {
		return services.Ledger{}, err
	}
	deductions, err := uow.ExpenseLedger().ListDeductions(ctx, from, to)
	if err != nil {
		return services.Ledger{}, err
	}
	return services.Ledger{Revenue: revenue, Deductions: deductions}, nil
}
