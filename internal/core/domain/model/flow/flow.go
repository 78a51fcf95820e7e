// Package flow defines the fixed, ordered step tables that drive time-based
// parcel status progression, and the pure clock that maps elapsed time onto
// due steps. Two chains exist per deployment: the origin-country chain and
// the local chain. Their thresholds and messages are configuration, not
// user-programmable workflow.
package flow

import (
	"fmt"
	"time"

	"kargotrack/internal/core/domain/model/parcel"

	"kargotrack/internal/pkg/errs"
)

// Step is one timed entry of a chain. Offset is measured from the chain's
// start time, not from the previous step. Status is recorded on the ledger
// row; the parcel's own status is updated only when SetsStatus is true.
type Step struct {
	Offset     time.Duration
	Status     parcel.Status
	SetsStatus bool
	Message    string
}

// DueStep is a chain step whose threshold has elapsed but whose stage has
// not yet been applied to a parcel. OccurredAt is the deterministic logical
// event time: chain start plus the step offset.
type DueStep struct {
	Stage      int
	Step       Step
	OccurredAt time.Time
}

// Chain is a fixed ordered list of steps. The stage index of Steps[i] is
// i+1; stage 0 means no step has been applied yet.
type Chain struct {
	Steps []Step
}

// Validate checks the chain's structural invariants: strictly increasing
// offsets, non-decreasing statuses, valid statuses and non-empty messages.
func (c Chain) Validate() error {
	for i, step := range c.Steps {
		if err := step.Status.Validate(); err != nil {
			return err
		}
		if step.Message == "" {
			return errs.NewValueIsRequiredError(fmt.Sprintf("step %d message", i+1))
		}
		if i == 0 {
			continue
		}
		if step.Offset <= c.Steps[i-1].Offset {
			return errs.NewValueIsInvalidErrorWithCause("chain offsets",
				fmt.Errorf("step %d offset %s is not after step %d offset %s",
					i+1, step.Offset, i, c.Steps[i-1].Offset))
		}
		if step.Status < c.Steps[i-1].Status {
			return errs.NewValueIsInvalidErrorWithCause("chain statuses",
				fmt.Errorf("step %d status %s regresses from %s",
					i+1, step.Status, c.Steps[i-1].Status))
		}
	}
	return nil
}

// DueSteps is the flow clock: given the chain start, the current wall time
// and the parcel's current stage cursor, it returns the steps whose
// threshold has elapsed and whose stage is still ahead of the cursor, in
// ascending stage order. The function is pure; calling it with the same
// inputs always yields the same steps and the same occurred-at instants.
func (c Chain) DueSteps(startedAt, now time.Time, currentStage int) []DueStep {
	elapsed := now.Sub(startedAt)

	var due []DueStep
	for i, step := range c.Steps {
		stage := i + 1
		if stage <= currentStage {
			continue
		}
		if step.Offset > elapsed {
			break
		}
		due = append(due, DueStep{
			Stage:      stage,
			Step:       step,
			OccurredAt: startedAt.Add(step.Offset),
		})
	}
	return due
}

// StepCount returns the number of steps in the chain.
func (c Chain) StepCount() int {
	return len(c.Steps)
}

// TerminalStage is the cursor value that marks a chain as fully superseded:
// one past the last step. The second checkpoint scan raises the local
// chain's cursor to this value so no timed step can fire afterwards.
func (c Chain) TerminalStage() int {
	return len(c.Steps) + 1
}
