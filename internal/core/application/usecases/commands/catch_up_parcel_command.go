package commands

import (
	"errors"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/pkg/guard"
)

var ErrCatchUpParcelCommandIsNotConstructed = errors.New(
	"CatchUpParcelCommand must be created via NewCatchUpParcelCommand constructor",
)

// CatchUpParcelCommand advances one parcel to the current moment. The
// history view issues it before reading, so a client always sees the
// ledger up to date even between sweep ticks.
type CatchUpParcelCommand struct { //nolint:recvcheck //using for validation
	trackNumber kernel.TrackNumber

	guard guard.ConstructorGuard
}

// NewCatchUpParcelCommand creates a catch-up command for a tracking code.
func NewCatchUpParcelCommand(rawTrackNumber string) (CatchUpParcelCommand, error) {
	trackNumber, err := kernel.NewTrackNumber(rawTrackNumber)
	if err != nil {
		return CatchUpParcelCommand{}, err
	}

	return CatchUpParcelCommand{
		trackNumber: trackNumber,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CatchUpParcelCommand) Validate() error {
	return c.guard.Validate(ErrCatchUpParcelCommandIsNotConstructed)
}

// TrackNumber returns the tracking code of the parcel to catch up.
func (c CatchUpParcelCommand) TrackNumber() kernel.TrackNumber {
	return c.trackNumber
}
