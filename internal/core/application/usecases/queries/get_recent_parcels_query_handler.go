package queries

import (
	"context"
	"time"

	"kargotrack/internal/core/domain/model/parcel"

	"gorm.io/gorm"
)

// GetRecentParcelsQueryHandler reads the latest registered parcels for the
// staff panel.
type GetRecentParcelsQueryHandler struct {
	db *gorm.DB
}

// NewGetRecentParcelsQueryHandler creates a handler for staff panel listings.
func NewGetRecentParcelsQueryHandler(db *gorm.DB) GetRecentParcelsQueryHandler {
	return GetRecentParcelsQueryHandler{db: db}
}

// Handle returns up to Limit parcels ordered by registration time descending.
func (h GetRecentParcelsQueryHandler) Handle(
	ctx context.Context,
	query GetRecentParcelsQuery,
) ([]RecentParcelResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			track_number,
			status,
			owner_id,
			created_at
		FROM parcels
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parcels := make([]RecentParcelResponse, 0, query.Limit())
	for rows.Next() {
		var trackNumber string
		var statusValue int
		var ownerID *string
		var createdAt time.Time

		if err = rows.Scan(&trackNumber, &statusValue, &ownerID, &createdAt); err != nil {
			return nil, err
		}

		status := parcel.Status(statusValue)
		parcels = append(parcels, RecentParcelResponse{
			TrackNumber: trackNumber,
			Status:      status.String(),
			StatusLabel: status.DisplayLabel(),
			Claimed:     ownerID != nil,
			CreatedAt:   createdAt.UTC().Format(HistoryTimeFormat),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return parcels, nil
}
