package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetPickupPointsQueryHandler reads active pickup points from the database.
type GetPickupPointsQueryHandler struct {
	db *gorm.DB
}

// NewGetPickupPointsQueryHandler creates a handler for pickup point listings.
func NewGetPickupPointsQueryHandler(db *gorm.DB) GetPickupPointsQueryHandler {
	return GetPickupPointsQueryHandler{db: db}
}

// Handle returns active pickup points ordered by name.
func (h GetPickupPointsQueryHandler) Handle(
	ctx context.Context,
	query GetPickupPointsQuery,
) ([]PickupPointResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			address,
			phone
		FROM pickup_points
		WHERE is_active
		ORDER BY name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]PickupPointResponse, 0)
	for rows.Next() {
		var point PickupPointResponse
		if err = rows.Scan(&point.ID, &point.Name, &point.Address, &point.Phone); err != nil {
			return nil, err
		}
		points = append(points, point)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return points, nil
}
