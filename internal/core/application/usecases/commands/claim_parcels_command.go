package commands

import (
	"errors"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/pkg/errs"
	"kargotrack/internal/pkg/guard"
)

// ClaimMaxTrackNumbers bounds the number of tracking codes accepted in one
// claim request.
const ClaimMaxTrackNumbers = 5

var ErrClaimParcelsCommandIsNotConstructed = errors.New(
	"ClaimParcelsCommand must be created via NewClaimParcelsCommand constructor",
)

// ClaimParcelsCommand binds a batch of tracking codes to a client. Codes
// are normalized and deduplicated at construction; an empty or oversized
// batch is rejected.
type ClaimParcelsCommand struct { //nolint:recvcheck //using for validation
	ownerID      kernel.UUID
	trackNumbers []kernel.TrackNumber

	guard guard.ConstructorGuard
}

// NewClaimParcelsCommand creates a claim command for up to
// ClaimMaxTrackNumbers raw tracking codes.
func NewClaimParcelsCommand(ownerID kernel.UUID, rawTrackNumbers []string) (ClaimParcelsCommand, error) {
	if err := ownerID.Validate(); err != nil {
		return ClaimParcelsCommand{}, err
	}

	if len(rawTrackNumbers) == 0 {
		return ClaimParcelsCommand{}, errs.NewValueIsRequiredError("trackNumbers")
	}
	if len(rawTrackNumbers) > ClaimMaxTrackNumbers {
		return ClaimParcelsCommand{}, errs.NewValueIsOutOfRangeError(
			"trackNumbers count", len(rawTrackNumbers), 1, ClaimMaxTrackNumbers)
	}

	seen := make(map[string]bool, len(rawTrackNumbers))
	trackNumbers := make([]kernel.TrackNumber, 0, len(rawTrackNumbers))
	for _, raw := range rawTrackNumbers {
		trackNumber, err := kernel.NewTrackNumber(raw)
		if err != nil {
			return ClaimParcelsCommand{}, err
		}
		if seen[trackNumber.String()] {
			continue
		}
		seen[trackNumber.String()] = true
		trackNumbers = append(trackNumbers, trackNumber)
	}

	return ClaimParcelsCommand{
		ownerID:      ownerID,
		trackNumbers: trackNumbers,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ClaimParcelsCommand) Validate() error {
	return c.guard.Validate(ErrClaimParcelsCommandIsNotConstructed)
}

// OwnerID returns the claiming client.
func (c ClaimParcelsCommand) OwnerID() kernel.UUID {
	return c.ownerID
}

// TrackNumbers returns the deduplicated normalized tracking codes.
func (c ClaimParcelsCommand) TrackNumbers() []kernel.TrackNumber {
	return c.trackNumbers
}
