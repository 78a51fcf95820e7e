// Package jobs provides scheduled background tasks for the tracking system.
//
// The single job, FlowSweepJob, is the engine behind time-driven status
// progression: on every tick it advances all parcels whose flow steps have
// come due, writing the corresponding ledger events. Scheduling uses
// github.com/robfig/cron/v3 with six-field expressions (seconds first);
// the default schedule fires at the start of every minute.
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(sweepHandler, jobs.DefaultSweepSchedule, 200, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// The sweep is safe to run concurrently with itself and with checkpoint
// scans: batches are selected with FOR UPDATE SKIP LOCKED and the ledger's
// uniqueness key absorbs duplicate event writes.
package jobs
