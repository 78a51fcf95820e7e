package commands

import (
	"errors"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/pkg/guard"
)

var ErrCatchUpOwnerParcelsCommandIsNotConstructed = errors.New(
	"CatchUpOwnerParcelsCommand must be created via NewCatchUpOwnerParcelsCommand constructor",
)

// CatchUpOwnerParcelsCommand advances every parcel claimed by one client.
// The client's parcel list view issues it before reading.
type CatchUpOwnerParcelsCommand struct { //nolint:recvcheck //using for validation
	ownerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCatchUpOwnerParcelsCommand creates a catch-up command for a client's parcels.
func NewCatchUpOwnerParcelsCommand(ownerID kernel.UUID) (CatchUpOwnerParcelsCommand, error) {
	if err := ownerID.Validate(); err != nil {
		return CatchUpOwnerParcelsCommand{}, err
	}

	return CatchUpOwnerParcelsCommand{
		ownerID: ownerID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CatchUpOwnerParcelsCommand) Validate() error {
	return c.guard.Validate(ErrCatchUpOwnerParcelsCommandIsNotConstructed)
}

// OwnerID returns the client whose parcels are caught up.
func (c CatchUpOwnerParcelsCommand) OwnerID() kernel.UUID {
	return c.ownerID
}
