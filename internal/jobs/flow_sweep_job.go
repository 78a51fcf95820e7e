package jobs

import (
	"context"
	"log/slog"

	"kargotrack/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule runs the sweep at the start of every minute.
const DefaultSweepSchedule = "0 * * * * *"

// FlowSweepJob periodically advances every parcel with due flow steps.
// The sweep is the system's clock: parcels progress through their chains
// even when nobody is looking at them.
type FlowSweepJob struct {
	handler   commands.SweepDueParcelsCommandHandler
	batchSize int
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewFlowSweepJob creates a sweep job with the given cron schedule (six
// fields, seconds first) and per-transaction batch size.
func NewFlowSweepJob(
	handler commands.SweepDueParcelsCommandHandler,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) *FlowSweepJob {
	return &FlowSweepJob{
		handler:   handler,
		batchSize: batchSize,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "flow_sweep_job"),
	}
}

// Start schedules the sweep. Ticks overlapping a still-running sweep are
// harmless: the skip-locked batch selection makes concurrent sweeps pass
// each other by.
func (j *FlowSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		cmd, err := commands.NewSweepDueParcelsCommand(j.batchSize)
		if err != nil {
			j.logger.ErrorContext(ctx, "Flow sweep misconfigured", "error", err)
			return
		}

		result, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Flow sweep failed", "error", err)
			return
		}

		if result.Changed > 0 {
			j.logger.InfoContext(ctx, "Flow sweep completed",
				"processed", result.Processed, "changed", result.Changed)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Flow sweep job started", "schedule", j.schedule)
	return nil
}

// Stop stops the flow sweep job.
func (j *FlowSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Flow sweep job stopped")
}
