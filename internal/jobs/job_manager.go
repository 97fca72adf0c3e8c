package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// JobManager schedules every task on one cron instance.
type JobManager struct {
	cron   *cron.Cron
	tasks  []Task
	logger zerolog.Logger
}

// NewJobManager schedules in loc, or UTC when loc is nil. Overlapping runs of
// one task are skipped.
func NewJobManager(loc *time.Location, logger zerolog.Logger, tasks ...Task) *JobManager {
	if loc == nil {
		loc = time.UTC
	}
	logger = logger.With().Str("component", "job_manager").Logger()
	cl := cronLogger{logger: logger}

	return &JobManager{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		tasks:  tasks,
		logger: logger,
	}
}

// StartAll registers every task and starts the scheduler. Runs get a child
// of ctx, so cancelling ctx aborts in-flight work. Nothing is scheduled if
// any spec is invalid.
func (jm *JobManager) StartAll(ctx context.Context) error {
	for _, task := range jm.tasks {
		if _, err := jm.cron.AddFunc(task.Spec(), jm.runner(ctx, task)); err != nil {
			for _, entry := range jm.cron.Entries() {
				jm.cron.Remove(entry.ID)
			}
			return fmt.Errorf("failed to schedule %s job: %w", task.Name(), err)
		}
		jm.logger.Info().Str("job", task.Name()).Str("spec", task.Spec()).Msg("job scheduled")
	}

	jm.cron.Start()
	return nil
}

// StopAll stops the scheduler and waits for running jobs to return.
func (jm *JobManager) StopAll() {
	<-jm.cron.Stop().Done()
	jm.logger.Info().Msg("jobs stopped")
}

func (jm *JobManager) runner(ctx context.Context, task Task) func() {
	return func() {
		started := time.Now()
		if err := task.Run(ctx); err != nil {
			jm.logger.Error().Err(err).Str("job", task.Name()).Msg("job failed")
			return
		}
		jm.logger.Debug().Str("job", task.Name()).Dur("took", time.Since(started)).Msg("job finished")
	}
}

// cronLogger routes cron's own messages to zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
