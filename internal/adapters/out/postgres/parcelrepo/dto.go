// Package parcelrepo provides data transfer objects and mapping functions for
// parcel persistence. It implements the repository pattern for the parcel
// aggregate, converting between domain entities and database rows.
package parcelrepo

import (
	"time"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// ParcelDTO represents the database structure for persisting parcel
// aggregates. The tracking code carries a unique index: one row per code is
// what lets concurrent first scans of the same label collapse into one
// parcel. Flow columns are indexed for the sweeper's due-batch scan.
type ParcelDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackNumber         string     `gorm:"type:varchar(64);uniqueIndex"`
	OwnerID             *uuid.UUID `gorm:"type:uuid;index"`
	Status              int        `gorm:"index"`
	OriginFlowStartedAt *time.Time `gorm:"index"`
	OriginFlowStage     int
	LocalFlowStartedAt  *time.Time
	LocalFlowStage      int
	CreatedAt           time.Time
}

// TableName specifies the database table name for parcel entities.
func (ParcelDTO) TableName() string {
	return "parcels"
}

// fromDomain converts a parcel aggregate to its database representation.
func fromDomain(aggregate *parcel.Parcel) ParcelDTO {
	var ownerID *uuid.UUID
	if id := aggregate.OwnerID(); id != nil {
		raw := id.Bytes()
		ownerID = &raw
	}

	return ParcelDTO{
		ID:                  aggregate.ID().Bytes(),
		TrackNumber:         aggregate.TrackNumber().String(),
		OwnerID:             ownerID,
		Status:              int(aggregate.Status()),
		OriginFlowStartedAt: aggregate.OriginFlowStartedAt(),
		OriginFlowStage:     aggregate.OriginFlowStage(),
		LocalFlowStartedAt:  aggregate.LocalFlowStartedAt(),
		LocalFlowStage:      aggregate.LocalFlowStage(),
		CreatedAt:           aggregate.CreatedAt(),
	}
}

// toDomain converts a database DTO to a parcel aggregate via RestoreParcel.
func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	trackNumber, err := kernel.NewTrackNumber(dto.TrackNumber)
	if err != nil {
		return nil, err
	}

	var ownerID *kernel.UUID
	if dto.OwnerID != nil {
		oID, ownerErr := kernel.UUIDFromBytes((*dto.OwnerID)[:])
		if ownerErr != nil {
			return nil, ownerErr
		}
		ownerID = &oID
	}

	return parcel.RestoreParcel(
		id,
		trackNumber,
		ownerID,
		parcel.Status(dto.Status),
		dto.OriginFlowStartedAt,
		dto.OriginFlowStage,
		dto.LocalFlowStartedAt,
		dto.LocalFlowStage,
		dto.CreatedAt,
	)
}
