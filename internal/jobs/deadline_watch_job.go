package jobs

import (
	"context"
	"time"

	"empi/internal/core/application/usecases/commands"

	"github.com/rs/zerolog"
)

type overdueHandler interface {
	Handle(ctx context.Context, cmd commands.NotifyOverdueOrdersCommand) (commands.OverdueReport, error)
}

// DeadlineWatchJob reports custom orders still in production after their
// deadline. Each deadline is reported once; lookback only bounds how stale a
// deadline may be.
type DeadlineWatchJob struct {
	handler  overdueHandler
	spec     string
	lookback time.Duration
	logger   zerolog.Logger
}

// NewDeadlineWatchJob builds the job for the given cron spec. A zero lookback
// reports every unreported deadline.
func NewDeadlineWatchJob(handler overdueHandler, spec string, lookback time.Duration, logger zerolog.Logger) *DeadlineWatchJob {
	return &DeadlineWatchJob{
		handler:  handler,
		spec:     spec,
		lookback: lookback,
		logger:   logger.With().Str("component", "deadline_watch_job").Logger(),
	}
}

// Name identifies the job in logs.
func (j *DeadlineWatchJob) Name() string {
	return "deadline-watch"
}

// Spec returns the cron schedule.
func (j *DeadlineWatchJob) Spec() string {
	return j.spec
}

// Run reports overdue orders and logs degraded notifications as warnings.
func (j *DeadlineWatchJob) Run(ctx context.Context) error {
	cmd, err := commands.NewNotifyOverdueOrdersCommand(j.lookback)
	if err != nil {
		return err
	}

	report, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		return err
	}

	if len(report.Orders) == 0 {
		j.logger.Debug().Msg("no overdue orders")
		return nil
	}
	for _, w := range report.Warnings {
		j.logger.Warn().Str("warning", w).Msg("overdue notification degraded")
	}
	j.logger.Info().Int("overdue", len(report.Orders)).Msg("overdue orders reported")
	return nil
}
