package queries

import (
	"errors"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/pkg/guard"
)

var ErrGetOwnerParcelsQueryIsNotConstructed = errors.New(
	"GetOwnerParcelsQuery must be created via NewGetOwnerParcelsQuery constructor",
)

// GetOwnerParcelsQuery retrieves all parcels a client has claimed, with
// per-status counts for the portal's dashboard strip.
type GetOwnerParcelsQuery struct { //nolint:recvcheck //using for validation
	ownerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOwnerParcelsQuery creates a query for a client's parcel list.
func NewGetOwnerParcelsQuery(ownerID kernel.UUID) (GetOwnerParcelsQuery, error) {
	if err := ownerID.Validate(); err != nil {
		return GetOwnerParcelsQuery{}, err
	}

	return GetOwnerParcelsQuery{
		ownerID: ownerID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOwnerParcelsQuery) Validate() error {
	return q.guard.Validate(ErrGetOwnerParcelsQueryIsNotConstructed)
}

// OwnerID returns the client whose parcels are listed.
func (q GetOwnerParcelsQuery) OwnerID() kernel.UUID {
	return q.ownerID
}

// GetOwnerParcelsQueryResponse is the client's parcel list with counts.
type GetOwnerParcelsQueryResponse struct {
	Parcels      []OwnerParcelResponse
	StatusCounts map[string]int
}

// OwnerParcelResponse is one claimed parcel rendered for the portal.
type OwnerParcelResponse struct {
	TrackNumber string
	Status      string
	StatusLabel string
	CreatedAt   string
}
