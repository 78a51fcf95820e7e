// Package pickuppointrepo provides data transfer objects and mapping
// functions for pickup point persistence.
package pickuppointrepo

import (
	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/core/domain/model/pickuppoint"

	"github.com/google/uuid"
)

// PickupPointDTO represents the database structure for pickup points.
type PickupPointDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"type:varchar(255)"`
	Address  string    `gorm:"type:text"`
	Phone    string    `gorm:"type:varchar(32)"`
	IsActive bool      `gorm:"index"`
}

// TableName specifies the database table name for pickup points.
func (PickupPointDTO) TableName() string {
	return "pickup_points"
}

// fromDomain converts a pickup point entity to its database representation.
func fromDomain(point *pickuppoint.PickupPoint) PickupPointDTO {
	return PickupPointDTO{
		ID:       point.ID().Bytes(),
		Name:     point.Name(),
		Address:  point.Address(),
		Phone:    point.Phone(),
		IsActive: point.IsActive(),
	}
}

// toDomain converts a database DTO to a pickup point entity.
func toDomain(dto PickupPointDTO) (*pickuppoint.PickupPoint, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return pickuppoint.RestorePickupPoint(id, dto.Name, dto.Address, dto.Phone, dto.IsActive)
}
