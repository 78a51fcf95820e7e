package commands_test

import (
	"testing"
	"time"

	"kargotrack/internal/core/application/usecases/commands"
	"kargotrack/internal/core/domain/model/flow"
	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/core/domain/model/parcel"
	"kargotrack/internal/core/domain/services"
	"kargotrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatchUpParcelCommandHandler_AppliesDueSteps(t *testing.T) {
	ctx := t.Context()
	timetable := flow.DefaultTimetable()
	startedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := startedAt.Add(72 * time.Hour)

	cmd, err := commands.NewCatchUpParcelCommand("LP00123456CN")
	require.NoError(t, err)

	p := restoreParcelAfterFirstScan(t, startedAt)

	parcelRepo := new(MockParcelRepository)
	historyRepo := new(MockHistoryRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ParcelRepository").Return(parcelRepo)
	uow.On("HistoryRepository").Return(historyRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	parcelRepo.On("GetByTrackNumberForUpdate", ctx, cmd.TrackNumber()).Return(p, nil).Once()
	parcelRepo.On("Update", ctx, p).Return(nil).Once()
	// Stages 2 (+10s) and 3 (+48h) are due at +72h; each event is stamped
	// with the stage's own offset, not the catch-up time.
	historyRepo.On("Append", ctx, p.ID(), mock.MatchedBy(func(e *parcel.HistoryEvent) bool {
		return e.OccurredAt().Equal(startedAt.Add(10*time.Second)) ||
			e.OccurredAt().Equal(startedAt.Add(48*time.Hour))
	})).Return(nil).Times(2)

	factory := new(MockFlowUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCatchUpParcelCommandHandlerWithClock(
		factory, services.NewFlowAdvancer(timetable), fixedClock(now))
	got, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, parcel.InTransit, got.Status())
	assert.Equal(t, 3, got.OriginFlowStage())

	parcelRepo.AssertExpectations(t)
	historyRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCatchUpParcelCommandHandler_NothingDue(t *testing.T) {
	ctx := t.Context()
	startedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := startedAt.Add(5 * time.Second)

	cmd, err := commands.NewCatchUpParcelCommand("LP00123456CN")
	require.NoError(t, err)

	p := restoreParcelAfterFirstScan(t, startedAt)

	parcelRepo := new(MockParcelRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ParcelRepository").Return(parcelRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	parcelRepo.On("GetByTrackNumberForUpdate", ctx, cmd.TrackNumber()).Return(p, nil).Once()

	factory := new(MockFlowUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCatchUpParcelCommandHandlerWithClock(
		factory, services.NewFlowAdvancer(flow.DefaultTimetable()), fixedClock(now))
	got, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, got.OriginFlowStage())

	parcelRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCatchUpParcelCommandHandler_UnknownTrackNumber(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCatchUpParcelCommand("GHOST1")
	require.NoError(t, err)

	parcelRepo := new(MockParcelRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ParcelRepository").Return(parcelRepo)
	uow.On("Rollback", ctx).Return(nil).Once()
	parcelRepo.On("GetByTrackNumberForUpdate", ctx, cmd.TrackNumber()).
		Return(nil, errs.NewObjectNotFoundError("trackNumber", "GHOST1")).Once()

	factory := new(MockFlowUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCatchUpParcelCommandHandler(
		factory, services.NewFlowAdvancer(flow.DefaultTimetable()))
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestCatchUpOwnerParcelsCommandHandler_AdvancesAllOwned(t *testing.T) {
	ctx := t.Context()
	timetable := flow.DefaultTimetable()
	startedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := startedAt.Add(time.Minute)
	ownerID := kernel.NewUUID()

	cmd, err := commands.NewCatchUpOwnerParcelsCommand(ownerID)
	require.NoError(t, err)

	due := restoreParcelAfterFirstScan(t, startedAt)
	fresh := restoreParcelAfterFirstScan(t, now)

	parcelRepo := new(MockParcelRepository)
	historyRepo := new(MockHistoryRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ParcelRepository").Return(parcelRepo)
	uow.On("HistoryRepository").Return(historyRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	parcelRepo.On("GetAllByOwnerForUpdate", ctx, ownerID).
		Return([]*parcel.Parcel{due, fresh}, nil).Once()
	parcelRepo.On("Update", ctx, due).Return(nil).Once()
	historyRepo.On("Append", ctx, due.ID(), mock.AnythingOfType("*parcel.HistoryEvent")).Return(nil).Once()

	factory := new(MockFlowUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCatchUpOwnerParcelsCommandHandlerWithClock(
		factory, services.NewFlowAdvancer(timetable), fixedClock(now))
	changed, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	parcelRepo.AssertExpectations(t)
	historyRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}
