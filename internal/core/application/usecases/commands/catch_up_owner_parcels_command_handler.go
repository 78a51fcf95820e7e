package commands

import (
	"context"
	"time"

	"kargotrack/internal/core/domain/services"
)

// CatchUpOwnerParcelsCommandHandler applies due flow steps to all parcels a
// client has claimed, in one transaction. Keeps the client portal accurate
// between sweep ticks without waiting for the background job.
type CatchUpOwnerParcelsCommandHandler struct {
	uowFactory FlowUoWFactory
	advancer   services.FlowAdvancer
	now        func() time.Time
}

// NewCatchUpOwnerParcelsCommandHandler creates a handler for owner catch-ups.
func NewCatchUpOwnerParcelsCommandHandler(
	uowFactory FlowUoWFactory,
	advancer services.FlowAdvancer,
) CatchUpOwnerParcelsCommandHandler {
	return CatchUpOwnerParcelsCommandHandler{
		uowFactory: uowFactory,
		advancer:   advancer,
		now:        time.Now,
	}
}

// NewCatchUpOwnerParcelsCommandHandlerWithClock creates a handler with an
// injected time source. Used by tests.
func NewCatchUpOwnerParcelsCommandHandlerWithClock(
	uowFactory FlowUoWFactory,
	advancer services.FlowAdvancer,
	now func() time.Time,
) CatchUpOwnerParcelsCommandHandler {
	handler := NewCatchUpOwnerParcelsCommandHandler(uowFactory, advancer)
	handler.now = now
	return handler
}

// Handle catches up every parcel of the owner and returns how many changed.
func (h *CatchUpOwnerParcelsCommandHandler) Handle(
	ctx context.Context,
	cmd CatchUpOwnerParcelsCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := h.now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcels, err := uow.ParcelRepository().GetAllByOwnerForUpdate(ctx, cmd.OwnerID())
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, p := range parcels {
		events, moved := h.advancer.Advance(p, now)
		if !moved {
			continue
		}

		for _, event := range events {
			if err = uow.HistoryRepository().Append(ctx, p.ID(), event); err != nil {
				return 0, err
			}
		}

		if err = uow.ParcelRepository().Update(ctx, p); err != nil {
			return 0, err
		}
		changed++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return changed, nil
}
