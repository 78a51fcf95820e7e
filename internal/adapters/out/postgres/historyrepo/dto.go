// Package historyrepo provides data transfer objects and mapping functions
// for the parcel status ledger. The ledger is append-only: rows are written
// by the flow advancer and the checkpoint scans and never updated.
package historyrepo

import (
	"time"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// HistoryEventDTO represents one row of the parcel status ledger.
//
// The composite unique index is the ledger's idempotency key: a sweep, a
// read-time catch-up and a scan can all try to write the same due step
// concurrently, and the index collapses those writes into one row. The
// message participates as a SHA-256 fingerprint so the key stays fixed-width
// regardless of message length.
type HistoryEventDTO struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	ParcelID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_parcel_history_dedup,priority:1"`
	Status      int       `gorm:"uniqueIndex:idx_parcel_history_dedup,priority:2"`
	Message     string    `gorm:"type:text"`
	MessageHash string    `gorm:"type:char(64);uniqueIndex:idx_parcel_history_dedup,priority:4"`
	OccurredAt  time.Time `gorm:"index;uniqueIndex:idx_parcel_history_dedup,priority:3"`
	CreatedAt   time.Time
}

// TableName specifies the database table name for ledger rows.
func (HistoryEventDTO) TableName() string {
	return "parcel_history"
}

// fromDomain converts a ledger event to its database representation.
func fromDomain(parcelID kernel.UUID, event *parcel.HistoryEvent) HistoryEventDTO {
	return HistoryEventDTO{
		ParcelID:    parcelID.Bytes(),
		Status:      int(event.Status()),
		Message:     event.Message(),
		MessageHash: event.Fingerprint(),
		OccurredAt:  event.OccurredAt(),
		CreatedAt:   event.CreatedAt(),
	}
}

// toDomain converts a database DTO to a ledger event via RestoreHistoryEvent.
func toDomain(dto HistoryEventDTO) (*parcel.HistoryEvent, error) {
	return parcel.RestoreHistoryEvent(
		dto.ID,
		parcel.Status(dto.Status),
		dto.Message,
		dto.OccurredAt,
		dto.CreatedAt,
	)
}
