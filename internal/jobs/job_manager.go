package jobs

import (
	"fmt"
	"log/slog"

	"kargotrack/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	flowSweepJob *FlowSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	sweepHandler commands.SweepDueParcelsCommandHandler,
	sweepSchedule string,
	sweepBatchSize int,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		flowSweepJob: NewFlowSweepJob(sweepHandler, sweepSchedule, sweepBatchSize, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.flowSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start flow sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.flowSweepJob.Stop()
}
