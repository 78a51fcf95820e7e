package queries

import (
	"errors"

	"kargotrack/internal/pkg/guard"
)

var ErrGetPickupPointsQueryIsNotConstructed = errors.New(
	"GetPickupPointsQuery must be created via NewGetPickupPointsQuery constructor",
)

// GetPickupPointsQuery retrieves the active pickup points shown on the
// portal's contacts page.
type GetPickupPointsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetPickupPointsQuery creates a parameterless pickup point listing query.
func NewGetPickupPointsQuery() GetPickupPointsQuery {
	return GetPickupPointsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetPickupPointsQuery) Validate() error {
	return q.guard.Validate(ErrGetPickupPointsQueryIsNotConstructed)
}

// PickupPointResponse is one active pickup point.
type PickupPointResponse struct {
	ID      string
	Name    string
	Address string
	Phone   string
}
