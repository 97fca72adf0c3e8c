package jobs

import (
	"context"

	"empi/internal/core/application/usecases/commands"
	"empi/internal/core/domain/services"
	"empi/internal/core/ports"

	"github.com/rs/zerolog"
)

type rolloverHandler interface {
	Handle(ctx context.Context, cmd commands.RolloverVATPeriodCommand) (services.RolloverResult, error)
}

// VATRolloverJob keeps the active VAT period in step with the calendar.
type VATRolloverJob struct {
	handler rolloverHandler
	clock   ports.Clock
	spec    string
	logger  zerolog.Logger
}

// NewVATRolloverJob falls back to the system clock when clock is nil.
func NewVATRolloverJob(handler rolloverHandler, clock ports.Clock, spec string, logger zerolog.Logger) *VATRolloverJob {
	if clock == nil {
		clock = ports.SystemClock()
	}
	return &VATRolloverJob{
		handler: handler,
		clock:   clock,
		spec:    spec,
		logger:  logger.With().Str("component", "vat_rollover_job").Logger(),
	}
}

// Name identifies the job in logs.
func (j *VATRolloverJob) Name() string {
	return "vat-rollover"
}

// Spec returns the cron schedule.
func (j *VATRolloverJob) Spec() string {
	return j.spec
}

// Run makes the period for the current date active and closes every earlier
// one left open.
func (j *VATRolloverJob) Run(ctx context.Context) error {
	cmd, err := commands.NewRolloverVATPeriodCommand(j.clock.Now(), commands.TriggerSchedule)
	if err != nil {
		return err
	}

	res, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		return err
	}

	event := j.logger.Info().
		Int("period_year", res.Target.Key().Year).
		Int("period_month", int(res.Target.Key().Month)).
		Bool("created", res.Created).
		Int("changed", len(res.Changed))
	if len(res.Closed) > 0 {
		event = event.Int("closed", len(res.Closed)).Str("closed_status", res.Closed[0].Status().String())
	}
	event.Msg("VAT rollover finished")
	return nil
}
