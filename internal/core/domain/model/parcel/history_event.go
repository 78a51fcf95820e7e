package parcel

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"kargotrack/internal/pkg/errs"
)

// HistoryEvent is one row of a parcel's append-only status ledger.
// Events are created only by the flow advancer and the checkpoint scans and
// are never mutated or deleted individually; they disappear only together
// with their parcel.
//
// OccurredAt is the logical event time: for a timed chain step it is the
// chain start plus the step offset, regardless of when the advancer actually
// ran. CreatedAt is the database insertion time and is assigned on persist.
//
// The ledger's idempotency key is (parcel, status, occurredAt, message
// fingerprint): a racing duplicate insert of the same event is a silent no-op.
type HistoryEvent struct {
	id         int64
	status     Status
	message    string
	occurredAt time.Time
	createdAt  time.Time

	isConstructed bool
}

// NewHistoryEvent creates a ledger event. The message must be non-blank;
// the status must be valid.
func NewHistoryEvent(status Status, message string, occurredAt time.Time) (*HistoryEvent, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(message) == "" {
		return nil, errs.NewValueIsRequiredError("message")
	}

	return &HistoryEvent{
		status:        status,
		message:       message,
		occurredAt:    occurredAt,
		isConstructed: true,
	}, nil
}

// RestoreHistoryEvent reconstructs a ledger event from persistence.
func RestoreHistoryEvent(
	id int64,
	status Status,
	message string,
	occurredAt time.Time,
	createdAt time.Time,
) (*HistoryEvent, error) {
	event, err := NewHistoryEvent(status, message, occurredAt)
	if err != nil {
		return nil, err
	}

	event.id = id
	event.createdAt = createdAt
	return event, nil
}

// Validate ensures the event was created through a constructor.
func (e *HistoryEvent) Validate() error {
	if e == nil || !e.isConstructed {
		return errs.NewValueIsRequiredError(
			"history event must be created via NewHistoryEvent or RestoreHistoryEvent")
	}
	return nil
}

// ID returns the database identifier, zero until persisted.
func (e *HistoryEvent) ID() int64 {
	return e.id
}

// Status returns the parcel status recorded at the time of the event.
func (e *HistoryEvent) Status() Status {
	return e.status
}

// Message returns the free-text event message.
func (e *HistoryEvent) Message() string {
	return e.message
}

// OccurredAt returns the logical event time.
func (e *HistoryEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// CreatedAt returns the insertion time, zero until persisted.
func (e *HistoryEvent) CreatedAt() time.Time {
	return e.createdAt
}

// Fingerprint returns the hex SHA-256 of the message content. Together with
// status and occurredAt it forms the ledger's uniqueness key.
func (e *HistoryEvent) Fingerprint() string {
	sum := sha256.Sum256([]byte(e.message))
	return hex.EncodeToString(sum[:])
}
