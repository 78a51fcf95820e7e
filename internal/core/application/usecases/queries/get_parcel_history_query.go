// Package queries contains read operations for the tracking portal and the
// staff panel. Query handlers read the database directly with raw SQL,
// bypassing the aggregates: the read side of the CQRS split.
package queries

import (
	"errors"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/pkg/guard"
)

// HistoryTimeFormat renders ledger timestamps for the portal.
const HistoryTimeFormat = "2006-01-02 15:04:05"

var ErrGetParcelHistoryQueryIsNotConstructed = errors.New(
	"GetParcelHistoryQuery must be created via NewGetParcelHistoryQuery constructor",
)

// GetParcelHistoryQuery retrieves a parcel's status ledger by tracking code.
// The portal's tracking page is public: anyone holding the code can read the
// history.
//
// Example:
//
//	query, err := NewGetParcelHistoryQuery("LP00123456CN")
//	if err != nil {
//	    return err
//	}
//
//	history, err := handler.Handle(ctx, query)
type GetParcelHistoryQuery struct { //nolint:recvcheck //using for validation
	trackNumber kernel.TrackNumber

	guard guard.ConstructorGuard
}

// NewGetParcelHistoryQuery creates a history query from raw portal input.
func NewGetParcelHistoryQuery(rawTrackNumber string) (GetParcelHistoryQuery, error) {
	trackNumber, err := kernel.NewTrackNumber(rawTrackNumber)
	if err != nil {
		return GetParcelHistoryQuery{}, err
	}

	return GetParcelHistoryQuery{
		trackNumber: trackNumber,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetParcelHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelHistoryQueryIsNotConstructed)
}

// TrackNumber returns the normalized tracking code.
func (q GetParcelHistoryQuery) TrackNumber() kernel.TrackNumber {
	return q.trackNumber
}

// GetParcelHistoryQueryResponse is the tracking page payload: the parcel's
// current state plus its ledger, newest first.
type GetParcelHistoryQueryResponse struct {
	TrackNumber string
	Status      string
	StatusLabel string
	Claimed     bool
	Events      []ParcelHistoryEventResponse
}

// ParcelHistoryEventResponse is one ledger row rendered for the portal.
type ParcelHistoryEventResponse struct {
	Status      string
	StatusLabel string
	Message     string
	OccurredAt  string
	IsLatest    bool
}
