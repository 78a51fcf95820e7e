package queries

import (
	"context"
	"time"

	"kargotrack/internal/core/domain/model/parcel"

	"gorm.io/gorm"
)

// GetOwnerParcelsQueryHandler reads a client's claimed parcels from the
// database, newest first, and tallies them by status.
type GetOwnerParcelsQueryHandler struct {
	db *gorm.DB
}

// NewGetOwnerParcelsQueryHandler creates a handler for owner parcel lists.
func NewGetOwnerParcelsQueryHandler(db *gorm.DB) GetOwnerParcelsQueryHandler {
	return GetOwnerParcelsQueryHandler{db: db}
}

// Handle returns the client's parcels ordered by registration time
// descending, plus a count per status for the dashboard.
func (h GetOwnerParcelsQueryHandler) Handle(
	ctx context.Context,
	query GetOwnerParcelsQuery,
) (GetOwnerParcelsQueryResponse, error) {
	var response GetOwnerParcelsQueryResponse

	if err := query.Validate(); err != nil {
		return response, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			track_number,
			status,
			created_at
		FROM parcels
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC
	`, query.OwnerID().String()).Rows()
	if err != nil {
		return response, err
	}
	defer rows.Close()

	response.Parcels = make([]OwnerParcelResponse, 0)
	response.StatusCounts = make(map[string]int)

	for rows.Next() {
		var trackNumber string
		var statusValue int
		var createdAt time.Time

		if err = rows.Scan(&trackNumber, &statusValue, &createdAt); err != nil {
			return GetOwnerParcelsQueryResponse{}, err
		}

		status := parcel.Status(statusValue)
		response.Parcels = append(response.Parcels, OwnerParcelResponse{
			TrackNumber: trackNumber,
			Status:      status.String(),
			StatusLabel: status.DisplayLabel(),
			CreatedAt:   createdAt.UTC().Format(HistoryTimeFormat),
		})
		response.StatusCounts[status.String()]++
	}

	if err = rows.Err(); err != nil {
		return GetOwnerParcelsQueryResponse{}, err
	}

	return response, nil
}
