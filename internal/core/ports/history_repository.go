package ports

import (
	"context"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/core/domain/model/parcel"
)

// HistoryRepository defines the persistence contract for the append-only
// parcel status ledger.
type HistoryRepository interface {
	// Append inserts one ledger event for the parcel. Inserting an event
	// that already exists under the ledger uniqueness key (parcel, status,
	// occurred-at, message fingerprint) is a silent no-op, which is what
	// makes concurrent advancer runs idempotent.
	Append(ctx context.Context, parcelID kernel.UUID, event *parcel.HistoryEvent) error

	// GetAllByParcel retrieves the parcel's ledger, newest first
	// (occurred-at descending, then id descending).
	GetAllByParcel(ctx context.Context, parcelID kernel.UUID) ([]*parcel.HistoryEvent, error)
}
