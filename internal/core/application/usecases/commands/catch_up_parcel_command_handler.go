package commands

import (
	"context"
	"time"

	"kargotrack/internal/core/domain/model/parcel"
	"kargotrack/internal/core/domain/services"
)

// CatchUpParcelCommandHandler applies due flow steps to a single parcel on
// demand. Runs the same advancer as the sweep under the same exclusive row
// lock, so a read-time catch-up racing a sweep tick converges on the same
// state and the ledger's uniqueness key absorbs the duplicate events.
type CatchUpParcelCommandHandler struct {
	uowFactory FlowUoWFactory
	advancer   services.FlowAdvancer
	now        func() time.Time
}

// NewCatchUpParcelCommandHandler creates a handler for single-parcel catch-ups.
func NewCatchUpParcelCommandHandler(
	uowFactory FlowUoWFactory,
	advancer services.FlowAdvancer,
) CatchUpParcelCommandHandler {
	return CatchUpParcelCommandHandler{
		uowFactory: uowFactory,
		advancer:   advancer,
		now:        time.Now,
	}
}

// NewCatchUpParcelCommandHandlerWithClock creates a handler with an injected
// time source. Used by tests.
func NewCatchUpParcelCommandHandlerWithClock(
	uowFactory FlowUoWFactory,
	advancer services.FlowAdvancer,
	now func() time.Time,
) CatchUpParcelCommandHandler {
	handler := NewCatchUpParcelCommandHandler(uowFactory, advancer)
	handler.now = now
	return handler
}

// Handle catches the parcel up and returns it in its advanced state.
// Returns errs.ErrObjectNotFound when the tracking code is unknown.
func (h *CatchUpParcelCommandHandler) Handle(
	ctx context.Context,
	cmd CatchUpParcelCommand,
) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.ParcelRepository().GetByTrackNumberForUpdate(ctx, cmd.TrackNumber())
	if err != nil {
		return nil, err
	}

	events, changed := h.advancer.Advance(p, now)
	if !changed {
		if err = uow.Commit(ctx); err != nil {
			return nil, err
		}
		return p, nil
	}

	for _, event := range events {
		if err = uow.HistoryRepository().Append(ctx, p.ID(), event); err != nil {
			return nil, err
		}
	}

	if err = uow.ParcelRepository().Update(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return p, nil
}
