package queries

import (
	"errors"

	"kargotrack/internal/pkg/errs"
	"kargotrack/internal/pkg/guard"
)

const (
	// RecentParcelsDefaultLimit is used when the staff panel does not ask
	// for a specific page size.
	RecentParcelsDefaultLimit = 30
	// RecentParcelsMaxLimit caps the staff panel page size.
	RecentParcelsMaxLimit = 200
)

var ErrGetRecentParcelsQueryIsNotConstructed = errors.New(
	"GetRecentParcelsQuery must be created via NewGetRecentParcelsQuery constructor",
)

// GetRecentParcelsQuery retrieves the latest registered parcels for the
// staff panel, regardless of owner.
type GetRecentParcelsQuery struct { //nolint:recvcheck //using for validation
	limit int

	guard guard.ConstructorGuard
}

// NewGetRecentParcelsQuery creates a staff panel query. A non-positive
// limit falls back to RecentParcelsDefaultLimit.
func NewGetRecentParcelsQuery(limit int) (GetRecentParcelsQuery, error) {
	if limit <= 0 {
		limit = RecentParcelsDefaultLimit
	}
	if limit > RecentParcelsMaxLimit {
		return GetRecentParcelsQuery{}, errs.NewValueIsOutOfRangeError(
			"limit", limit, 1, RecentParcelsMaxLimit)
	}

	return GetRecentParcelsQuery{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRecentParcelsQuery) Validate() error {
	return q.guard.Validate(ErrGetRecentParcelsQueryIsNotConstructed)
}

// Limit returns the page size.
func (q GetRecentParcelsQuery) Limit() int {
	return q.limit
}

// RecentParcelResponse is one row of the staff panel listing.
type RecentParcelResponse struct {
	TrackNumber string
	Status      string
	StatusLabel string
	Claimed     bool
	CreatedAt   string
}
