package commands

import (
	"errors"

	"kargotrack/internal/pkg/errs"
	"kargotrack/internal/pkg/guard"
)

// SweepMaxBatchSize bounds one sweep batch. Batches are processed in
// separate transactions, so a larger batch only extends lock hold time
// without improving throughput.
const SweepMaxBatchSize = 1000

var ErrSweepDueParcelsCommandIsNotConstructed = errors.New(
	"SweepDueParcelsCommand must be created via NewSweepDueParcelsCommand constructor",
)

// SweepDueParcelsCommand triggers one full sweep over all parcels with due
// flow steps. The background job issues it on every tick.
type SweepDueParcelsCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

// NewSweepDueParcelsCommand creates a sweep command processing parcels in
// batches of batchSize per transaction.
func NewSweepDueParcelsCommand(batchSize int) (SweepDueParcelsCommand, error) {
	if batchSize <= 0 || batchSize > SweepMaxBatchSize {
		return SweepDueParcelsCommand{}, errs.NewValueIsOutOfRangeError(
			"batchSize", batchSize, 1, SweepMaxBatchSize)
	}

	return SweepDueParcelsCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SweepDueParcelsCommand) Validate() error {
	return c.guard.Validate(ErrSweepDueParcelsCommandIsNotConstructed)
}

// BatchSize returns the number of parcels locked and advanced per transaction.
func (c SweepDueParcelsCommand) BatchSize() int {
	return c.batchSize
}
