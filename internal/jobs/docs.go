// Package jobs runs the scheduled background tasks of the service on top of
// github.com/robfig/cron/v3.
//
// # Available Jobs
//
//  1. VATRolloverJob - opens the VAT period containing now and closes the
//     previous one once its window has ended. Safe to run as often as
//     needed: a second run in the same window changes nothing but totals.
//  2. DeadlineWatchJob - alerts production about custom orders whose
//     deadline passed since the previous run.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(loc, logger,
//		jobs.NewVATRolloverJob(rolloverHandler, clock, "5 0 * * *", logger),
//		jobs.NewDeadlineWatchJob(overdueHandler, "*/15 * * * *", 15*time.Minute, logger),
//	)
//	if err := jobManager.StartAll(ctx); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Specs use the standard five-field cron syntax (or descriptors such as
// "@hourly") and are evaluated in the accounting time zone. A run that is
// still in progress when the next one is due is skipped, and a panicking
// run is recovered and logged.
package jobs
