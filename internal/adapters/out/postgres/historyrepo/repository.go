package historyrepo

import (
	"context"
	"errors"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/core/domain/model/parcel"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// GormHistoryRepository implements HistoryRepository using GORM.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GORM history repository.
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Append inserts one ledger row. A duplicate under the ledger's idempotency
// key is a silent no-op: the insert carries ON CONFLICT DO NOTHING, and a
// unique violation surfacing anyway (a concurrent insert landing between
// planning and execution) is swallowed the same way.
func (r *GormHistoryRepository) Append(
	ctx context.Context,
	parcelID kernel.UUID,
	event *parcel.HistoryEvent,
) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	if err := event.Validate(); err != nil {
		return err
	}

	dto := fromDomain(parcelID, event)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "parcel_id"},
				{Name: "status"},
				{Name: "occurred_at"},
				{Name: "message_hash"},
			},
			DoNothing: true,
		}).
		Create(&dto).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil
		}
		return err
	}

	return nil
}

// GetAllByParcel retrieves the parcel's ledger, newest first.
func (r *GormHistoryRepository) GetAllByParcel(
	ctx context.Context,
	parcelID kernel.UUID,
) ([]*parcel.HistoryEvent, error) {
	if err := parcelID.Validate(); err != nil {
		return nil, err
	}

	var dtos []HistoryEventDTO
	err := r.db.WithContext(ctx).
		Where("parcel_id = ?", parcelID.Bytes()).
		Order("occurred_at DESC, id DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	events := make([]*parcel.HistoryEvent, 0, len(dtos))
	for _, dto := range dtos {
		event, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}
