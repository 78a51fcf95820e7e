// Package ports defines repository interfaces for the parcel tracking domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"kargotrack/internal/core/domain/model/flow"
	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/core/domain/model/parcel"
)

// ParcelRepository defines the persistence contract for parcel aggregates.
//
// The locking variants matter: every flow mutation (checkpoint scan, sweep,
// read-time catch-up) must read the parcel through a locked method inside a
// transaction, so the decision "is this stage due?" and the write "apply
// stage" cannot interleave with another worker's.
type ParcelRepository interface {
	// Add persists a new parcel aggregate to storage.
	Add(ctx context.Context, aggregate *parcel.Parcel) error

	// Update persists changes to an existing parcel aggregate.
	Update(ctx context.Context, aggregate *parcel.Parcel) error

	// Get retrieves a parcel by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// GetByTrackNumber retrieves a parcel by its tracking code, without
	// locking. Returns an ObjectNotFoundError when the code is unknown.
	GetByTrackNumber(ctx context.Context, trackNumber kernel.TrackNumber) (*parcel.Parcel, error)

	// GetByTrackNumberForUpdate retrieves a parcel by its tracking code
	// under an exclusive row lock (SELECT ... FOR UPDATE). Blocks until a
	// concurrent holder releases the row. Must run inside a transaction.
	GetByTrackNumberForUpdate(ctx context.Context, trackNumber kernel.TrackNumber) (*parcel.Parcel, error)

	// GetForUpdate retrieves a parcel by id under an exclusive row lock.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// GetAllByOwner retrieves a client's claimed parcels, newest first.
	GetAllByOwner(ctx context.Context, ownerID kernel.UUID) ([]*parcel.Parcel, error)

	// GetAllByOwnerForUpdate retrieves a client's claimed parcels under
	// exclusive row locks, ordered by id so concurrent owner catch-ups
	// acquire locks in a consistent order. Must run inside a transaction.
	GetAllByOwnerForUpdate(ctx context.Context, ownerID kernel.UUID) ([]*parcel.Parcel, error)

	// GetRecent retrieves the latest registered parcels (staff panel view).
	GetRecent(ctx context.Context, limit int) ([]*parcel.Parcel, error)

	// GetDueBatchForUpdate selects up to limit parcels with at least one
	// chain step or terminal timer due per the timetable, ordered by id,
	// locking rows with FOR UPDATE SKIP LOCKED: rows held by concurrent
	// workers are skipped, not waited on. Must run inside a transaction.
	GetDueBatchForUpdate(
		ctx context.Context,
		timetable flow.Timetable,
		now time.Time,
		limit int,
	) ([]*parcel.Parcel, error)
}
