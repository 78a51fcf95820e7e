package commands

import (
	"errors"
	"fmt"
	"time"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/pkg/guard"
)

var (
	ErrProcessCheckpointScanCommandIsNotConstructed = errors.New(
		"ProcessCheckpointScanCommand must be created via NewProcessCheckpointScanCommand constructor",
	)

	// ErrSecondScanNotReady classifies timing-gate rejections: the second
	// scan was attempted before the configured delay elapsed. Retryable by
	// the caller after the stated wait; not a system fault.
	ErrSecondScanNotReady = errors.New("second scan is not yet available")
)

// SecondScanNotReadyError reports how long the scanner has to wait before
// the second checkpoint scan will be accepted.
type SecondScanNotReadyError struct {
	RemainingWait time.Duration
}

// NewSecondScanNotReadyError creates a timing-gate error with the remaining wait.
func NewSecondScanNotReadyError(remaining time.Duration) *SecondScanNotReadyError {
	return &SecondScanNotReadyError{RemainingWait: remaining}
}

func (e *SecondScanNotReadyError) Error() string {
	hours := int(e.RemainingWait.Hours())
	minutes := int(e.RemainingWait.Minutes()) % 60
	return fmt.Sprintf("second scan available in %dh %dm", hours, minutes)
}

func (e *SecondScanNotReadyError) Unwrap() error {
	return ErrSecondScanNotReady
}

// ProcessCheckpointScanCommand represents one staff scan of a tracking code
// at either checkpoint. The raw scanner input is normalized and validated at
// construction; invalid codes never reach the handler.
//
// Example:
//
//	cmd, err := NewProcessCheckpointScanCommand(" lp0012 3456 cn ", &pointID)
//	if err != nil {
//	    return fmt.Errorf("invalid scan input: %w", err)
//	}
//
//	message, err := handler.Handle(ctx, cmd)
type ProcessCheckpointScanCommand struct { //nolint:recvcheck //using for validation
	trackNumber   kernel.TrackNumber
	pickupPointID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewProcessCheckpointScanCommand creates a scan command from the raw
// scanner input. pickupPointID identifies the scanning staff's pickup point
// and may be nil; it only affects the arrival message of a second scan.
func NewProcessCheckpointScanCommand(rawTrackNumber string, pickupPointID *kernel.UUID) (ProcessCheckpointScanCommand, error) {
	command := ProcessCheckpointScanCommand{
		guard: guard.NewConstructorGuard(),
	}

	trackNumber, err := kernel.NewTrackNumber(rawTrackNumber)
	if err != nil {
		return ProcessCheckpointScanCommand{}, err
	}
	command.trackNumber = trackNumber

	if pickupPointID != nil {
		if err := pickupPointID.Validate(); err != nil {
			return ProcessCheckpointScanCommand{}, err
		}
		id := *pickupPointID
		command.pickupPointID = &id
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ProcessCheckpointScanCommand) Validate() error {
	return c.guard.Validate(ErrProcessCheckpointScanCommandIsNotConstructed)
}

// TrackNumber returns the normalized tracking code being scanned.
func (c ProcessCheckpointScanCommand) TrackNumber() kernel.TrackNumber {
	return c.trackNumber
}

// PickupPointID returns the scanning staff's pickup point, or nil.
func (c ProcessCheckpointScanCommand) PickupPointID() *kernel.UUID {
	return c.pickupPointID
}
