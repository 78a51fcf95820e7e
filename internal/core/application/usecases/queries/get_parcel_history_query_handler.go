package queries

import (
	"context"
	"time"

	"kargotrack/internal/core/domain/model/parcel"
	"kargotrack/internal/pkg/errs"

	"gorm.io/gorm"
)

// registeredMessage backs the synthetic event shown for parcels whose
// ledger is still empty (registered but never scanned).
const registeredMessage = "Parcel registered in the tracking system."

// GetParcelHistoryQueryHandler reads a parcel's ledger from the database.
// Callers wanting a fully up-to-date ledger run the parcel catch-up command
// first; the handler itself never writes.
type GetParcelHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetParcelHistoryQueryHandler creates a handler for history queries.
func NewGetParcelHistoryQueryHandler(db *gorm.DB) GetParcelHistoryQueryHandler {
	return GetParcelHistoryQueryHandler{db: db}
}

// Handle returns the parcel's state and its ledger, newest first. A parcel
// with an empty ledger gets one synthetic "registered" event derived from
// its creation time, so the tracking page never renders an empty timeline.
// Returns an ObjectNotFoundError for unknown tracking codes.
func (h GetParcelHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetParcelHistoryQuery,
) (GetParcelHistoryQueryResponse, error) {
	var response GetParcelHistoryQueryResponse

	if err := query.Validate(); err != nil {
		return response, err
	}

	var parcelRow struct {
		ID        string
		Status    int
		OwnerID   *string
		CreatedAt time.Time
	}

	result := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			owner_id,
			created_at
		FROM parcels
		WHERE track_number = ?
	`, query.TrackNumber().String()).Scan(&parcelRow)
	if result.Error != nil {
		return response, result.Error
	}
	if result.RowsAffected == 0 {
		return response, errs.NewObjectNotFoundError("trackNumber", query.TrackNumber().String())
	}

	status := parcel.Status(parcelRow.Status)
	response.TrackNumber = query.TrackNumber().String()
	response.Status = status.String()
	response.StatusLabel = status.DisplayLabel()
	response.Claimed = parcelRow.OwnerID != nil

	events, err := h.loadEvents(ctx, parcelRow.ID)
	if err != nil {
		return GetParcelHistoryQueryResponse{}, err
	}

	if len(events) == 0 {
		events = []ParcelHistoryEventResponse{{
			Status:      status.String(),
			StatusLabel: status.DisplayLabel(),
			Message:     registeredMessage,
			OccurredAt:  parcelRow.CreatedAt.UTC().Format(HistoryTimeFormat),
		}}
	}
	events[0].IsLatest = true
	response.Events = events

	return response, nil
}

func (h GetParcelHistoryQueryHandler) loadEvents(
	ctx context.Context,
	parcelID string,
) ([]ParcelHistoryEventResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			message,
			occurred_at
		FROM parcel_history
		WHERE parcel_id = ?
		ORDER BY occurred_at DESC, id DESC
	`, parcelID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]ParcelHistoryEventResponse, 0)
	for rows.Next() {
		var statusValue int
		var message string
		var occurredAt time.Time

		if err = rows.Scan(&statusValue, &message, &occurredAt); err != nil {
			return nil, err
		}

		eventStatus := parcel.Status(statusValue)
		events = append(events, ParcelHistoryEventResponse{
			Status:      eventStatus.String(),
			StatusLabel: eventStatus.DisplayLabel(),
			Message:     message,
			OccurredAt:  occurredAt.UTC().Format(HistoryTimeFormat),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
