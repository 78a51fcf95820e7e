package parcel_test

import (
	"testing"
	"time"

	"kargotrack/internal/core/domain/model/parcel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistoryEvent(t *testing.T) {
	occurredAt := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)

	t.Run("should create valid event", func(t *testing.T) {
		event, err := parcel.NewHistoryEvent(parcel.AtOrigin, "Parcel has been received at the origin warehouse.", occurredAt)

		require.NoError(t, err)
		require.NoError(t, event.Validate())
		assert.Equal(t, parcel.AtOrigin, event.Status())
		assert.Equal(t, "Parcel has been received at the origin warehouse.", event.Message())
		assert.Equal(t, occurredAt, event.OccurredAt())
		assert.Zero(t, event.ID())
		assert.True(t, event.CreatedAt().IsZero())
	})

	t.Run("should fail with invalid status", func(t *testing.T) {
		event, err := parcel.NewHistoryEvent(parcel.Unknown, "message", occurredAt)

		require.Error(t, err)
		assert.Nil(t, event)
	})

	t.Run("should fail with blank message", func(t *testing.T) {
		event, err := parcel.NewHistoryEvent(parcel.AtOrigin, "   \t", occurredAt)

		require.Error(t, err)
		assert.Nil(t, event)
		assert.Contains(t, err.Error(), "message")
	})
}

func TestRestoreHistoryEvent(t *testing.T) {
	occurredAt := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)
	createdAt := occurredAt.Add(time.Minute)

	t.Run("should restore persisted event", func(t *testing.T) {
		event, err := parcel.RestoreHistoryEvent(42, parcel.InTransit, "In transit.", occurredAt, createdAt)

		require.NoError(t, err)
		assert.Equal(t, int64(42), event.ID())
		assert.Equal(t, createdAt, event.CreatedAt())
	})

	t.Run("should fail with blank message", func(t *testing.T) {
		event, err := parcel.RestoreHistoryEvent(42, parcel.InTransit, "", occurredAt, createdAt)

		require.Error(t, err)
		assert.Nil(t, event)
	})
}

func TestHistoryEventValidate(t *testing.T) {
	t.Run("should fail for zero value and nil events", func(t *testing.T) {
		var zero parcel.HistoryEvent
		var nilEvent *parcel.HistoryEvent

		assert.Error(t, zero.Validate())
		assert.Error(t, nilEvent.Validate())
	})
}

func TestHistoryEventFingerprint(t *testing.T) {
	occurredAt := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)

	t.Run("should be stable for the same message", func(t *testing.T) {
		a, err := parcel.NewHistoryEvent(parcel.AtOrigin, "same message", occurredAt)
		require.NoError(t, err)
		b, err := parcel.NewHistoryEvent(parcel.InTransit, "same message", occurredAt.Add(time.Hour))
		require.NoError(t, err)

		assert.Equal(t, a.Fingerprint(), b.Fingerprint())
		assert.Len(t, a.Fingerprint(), 64)
	})

	t.Run("should differ for different messages", func(t *testing.T) {
		a, err := parcel.NewHistoryEvent(parcel.AtOrigin, "first", occurredAt)
		require.NoError(t, err)
		b, err := parcel.NewHistoryEvent(parcel.AtOrigin, "second", occurredAt)
		require.NoError(t, err)

		assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	})
}
