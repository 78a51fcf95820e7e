package pickuppointrepo

import (
	"context"
	"errors"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/core/domain/model/pickuppoint"
	"kargotrack/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPickupPointRepository implements PickupPointRepository using GORM.
type GormPickupPointRepository struct {
	db *gorm.DB
}

// NewGormPickupPointRepository creates a new GORM pickup point repository.
func NewGormPickupPointRepository(db *gorm.DB) *GormPickupPointRepository {
	return &GormPickupPointRepository{db: db}
}

// Add saves a new pickup point to the database.
func (r *GormPickupPointRepository) Add(ctx context.Context, point *pickuppoint.PickupPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	dto := fromDomain(point)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a pickup point by ID.
func (r *GormPickupPointRepository) Get(ctx context.Context, id kernel.UUID) (*pickuppoint.PickupPoint, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PickupPointDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("pickupPoint", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActive retrieves active pickup points ordered by name.
func (r *GormPickupPointRepository) GetAllActive(ctx context.Context) ([]*pickuppoint.PickupPoint, error) {
	var dtos []PickupPointDTO
	err := r.db.WithContext(ctx).
		Where("is_active").
		Order("name").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	points := make([]*pickuppoint.PickupPoint, 0, len(dtos))
	for _, dto := range dtos {
		point, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}

	return points, nil
}
