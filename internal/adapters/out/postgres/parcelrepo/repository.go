package parcelrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"kargotrack/internal/core/domain/model/flow"
	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/core/domain/model/parcel"
	"kargotrack/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormParcelRepository implements ParcelRepository using GORM.
type GormParcelRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormParcelRepository creates a new GORM parcel repository.
func NewGormParcelRepository(db *gorm.DB, tracker aggregateTracker) *GormParcelRepository {
	return &GormParcelRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new parcel to the database.
func (r *GormParcelRepository) Add(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing parcel to the database.
func (r *GormParcelRepository) Update(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&ParcelDTO{}).
		Where("id = ?", dto.ID).
		Select("OwnerID", "Status", "OriginFlowStartedAt", "OriginFlowStage", "LocalFlowStartedAt", "LocalFlowStage").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a parcel by ID.
func (r *GormParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ParcelDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("parcel", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetForUpdate retrieves a parcel by ID under an exclusive row lock.
func (r *GormParcelRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ParcelDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("parcel", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByTrackNumber retrieves a parcel by its tracking code.
func (r *GormParcelRepository) GetByTrackNumber(
	ctx context.Context, trackNumber kernel.TrackNumber,
) (*parcel.Parcel, error) {
	if err := trackNumber.Validate(); err != nil {
		return nil, err
	}

	var dto ParcelDTO
	if err := r.db.WithContext(ctx).First(&dto, "track_number = ?", trackNumber.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trackNumber", trackNumber.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByTrackNumberForUpdate retrieves a parcel by its tracking code under an
// exclusive row lock.
func (r *GormParcelRepository) GetByTrackNumberForUpdate(
	ctx context.Context, trackNumber kernel.TrackNumber,
) (*parcel.Parcel, error) {
	if err := trackNumber.Validate(); err != nil {
		return nil, err
	}

	var dto ParcelDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&dto, "track_number = ?", trackNumber.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trackNumber", trackNumber.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByOwner retrieves a client's claimed parcels, newest first.
func (r *GormParcelRepository) GetAllByOwner(
	ctx context.Context, ownerID kernel.UUID,
) ([]*parcel.Parcel, error) {
	if err := ownerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ParcelDTO
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID.Bytes()).
		Order("created_at DESC, id DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetAllByOwnerForUpdate retrieves a client's claimed parcels under
// exclusive row locks, ordered by ID for a consistent lock order.
func (r *GormParcelRepository) GetAllByOwnerForUpdate(
	ctx context.Context, ownerID kernel.UUID,
) ([]*parcel.Parcel, error) {
	if err := ownerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ParcelDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("owner_id = ?", ownerID.Bytes()).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetRecent retrieves the latest registered parcels.
func (r *GormParcelRepository) GetRecent(ctx context.Context, limit int) ([]*parcel.Parcel, error) {
	var dtos []ParcelDTO
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetDueBatchForUpdate selects up to limit parcels with at least one due
// flow transition, locking them with FOR UPDATE SKIP LOCKED. The predicate
// is derived from the timetable, so it selects exactly the rows the
// advancer would change: per-stage cutoffs for both chains plus the
// terminal received timer.
func (r *GormParcelRepository) GetDueBatchForUpdate(
	ctx context.Context,
	timetable flow.Timetable,
	now time.Time,
	limit int,
) ([]*parcel.Parcel, error) {
	duePredicate, args := buildDuePredicate(timetable, now)

	var dtos []ParcelDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{
			Strength: clause.LockingStrengthUpdate,
			Options:  clause.LockingOptionsSkipLocked,
		}).
		Where("status <> ?", int(parcel.Received)).
		Where(duePredicate, args...).
		Order("id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// buildDuePredicate renders the timetable into a SQL disjunction: one term
// per origin stage, one for the terminal received timer, one per local
// stage. A term matches when the stage cursor has not passed the stage and
// the stage's offset has elapsed since the chain start.
func buildDuePredicate(timetable flow.Timetable, now time.Time) (string, []any) {
	var terms []string
	var args []any

	for i, step := range timetable.Origin.Steps {
		terms = append(terms,
			"(origin_flow_started_at IS NOT NULL AND origin_flow_stage < ? AND origin_flow_started_at <= ?)")
		args = append(args, i+1, now.Add(-step.Offset))
	}

	// Terminal received timer. AtPickup parcels are excluded: the explicit
	// second scan outranks the timer.
	terms = append(terms,
		"(origin_flow_started_at IS NOT NULL AND origin_flow_started_at <= ? AND status <> ?)")
	args = append(args, now.Add(-timetable.ReceivedAfter), int(parcel.AtPickup))

	for i, step := range timetable.Local.Steps {
		terms = append(terms,
			"(local_flow_started_at IS NOT NULL AND local_flow_stage < ? AND local_flow_started_at <= ?)")
		args = append(args, i+1, now.Add(-step.Offset))
	}

	return "(" + strings.Join(terms, " OR ") + ")", args
}

func toDomainSlice(dtos []ParcelDTO) ([]*parcel.Parcel, error) {
	parcels := make([]*parcel.Parcel, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		parcels = append(parcels, p)
	}

	return parcels, nil
}
