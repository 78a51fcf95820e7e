package commands_test

import (
	"testing"
	"time"

	"kargotrack/internal/core/application/usecases/commands"
	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/core/domain/model/parcel"
	"kargotrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUnownedParcel(t *testing.T, rawTrackNumber string) *parcel.Parcel {
	t.Helper()

	trackNumber, err := kernel.NewTrackNumber(rawTrackNumber)
	require.NoError(t, err)

	p, err := parcel.NewParcel(kernel.NewUUID(), trackNumber, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return p
}

func TestNewClaimParcelsCommand_Bounds(t *testing.T) {
	ownerID := kernel.NewUUID()

	_, err := commands.NewClaimParcelsCommand(ownerID, nil)
	require.Error(t, err)

	_, err = commands.NewClaimParcelsCommand(ownerID, []string{"A1", "A2", "A3", "A4", "A5", "A6"})
	require.Error(t, err)

	// Duplicates collapse after normalization.
	cmd, err := commands.NewClaimParcelsCommand(ownerID, []string{"abc123", " ABC 123 "})
	require.NoError(t, err)
	assert.Len(t, cmd.TrackNumbers(), 1)
}

func TestClaimParcelsCommandHandler_PerCodeOutcomes(t *testing.T) {
	ctx := t.Context()
	ownerID := kernel.NewUUID()
	otherID := kernel.NewUUID()

	unowned := newUnownedParcel(t, "FREE1")
	mine := newUnownedParcel(t, "MINE1")
	_, err := mine.Claim(ownerID)
	require.NoError(t, err)
	taken := newUnownedParcel(t, "TAKEN1")
	_, err = taken.Claim(otherID)
	require.NoError(t, err)

	cmd, err := commands.NewClaimParcelsCommand(ownerID, []string{"FREE1", "MINE1", "TAKEN1", "GHOST1"})
	require.NoError(t, err)

	parcelRepo := new(MockParcelRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ParcelRepository").Return(parcelRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	tracks := cmd.TrackNumbers()
	parcelRepo.On("GetByTrackNumberForUpdate", ctx, tracks[0]).Return(unowned, nil).Once()
	parcelRepo.On("GetByTrackNumberForUpdate", ctx, tracks[1]).Return(mine, nil).Once()
	parcelRepo.On("GetByTrackNumberForUpdate", ctx, tracks[2]).Return(taken, nil).Once()
	parcelRepo.On("GetByTrackNumberForUpdate", ctx, tracks[3]).
		Return(nil, errs.NewObjectNotFoundError("trackNumber", "GHOST1")).Once()
	parcelRepo.On("Update", ctx, unowned).Return(nil).Once()
	parcelRepo.On("Add", ctx, mock.MatchedBy(func(p *parcel.Parcel) bool {
		return p.TrackNumber().String() == "GHOST1" &&
			p.Status() == parcel.AwaitingOrigin &&
			p.IsOwnedBy(ownerID)
	})).Return(nil).Once()

	factory := new(MockParcelUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewClaimParcelsCommandHandler(factory)
	results, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, commands.ClaimOutcomeClaimed, results[0].Outcome)
	assert.Equal(t, commands.ClaimOutcomeAlreadyYours, results[1].Outcome)
	assert.Equal(t, commands.ClaimOutcomeTaken, results[2].Outcome)
	assert.Equal(t, commands.ClaimOutcomeRegistered, results[3].Outcome)

	assert.True(t, unowned.IsOwnedBy(ownerID))
	assert.False(t, taken.IsOwnedBy(ownerID))

	parcelRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestClaimParcelsCommandHandler_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := new(MockParcelUoWFactory)
	h := commands.NewClaimParcelsCommandHandler(factory)

	_, err := h.Handle(ctx, commands.ClaimParcelsCommand{})
	require.ErrorIs(t, err, commands.ErrClaimParcelsCommandIsNotConstructed)
}
