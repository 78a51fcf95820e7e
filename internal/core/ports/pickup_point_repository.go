package ports

import (
	"context"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/core/domain/model/pickuppoint"
)

// PickupPointRepository defines the persistence contract for pickup points.
// Pickup points are reference data: the core reads them to compose arrival
// messages; they are maintained out of band.
type PickupPointRepository interface {
	// Add persists a new pickup point.
	Add(ctx context.Context, point *pickuppoint.PickupPoint) error

	// Get retrieves a pickup point by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*pickuppoint.PickupPoint, error)

	// GetAllActive retrieves active pickup points ordered by name.
	GetAllActive(ctx context.Context) ([]*pickuppoint.PickupPoint, error)
}
