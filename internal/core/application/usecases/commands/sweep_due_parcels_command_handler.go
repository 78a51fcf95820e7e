package commands

import (
	"context"
	"time"

	"kargotrack/internal/core/domain/services"
)

// SweepResult summarizes one sweep run.
type SweepResult struct {
	// Processed counts parcels locked and examined across all batches.
	Processed int
	// Changed counts parcels that actually moved: at least one flow step
	// applied or a terminal transition made.
	Changed int
}

// SweepDueParcelsCommandHandler advances every parcel with due flow steps.
// Each batch runs in its own transaction: parcels are locked with
// FOR UPDATE SKIP LOCKED, so concurrent sweeps and checkpoint scans never
// block each other, and a crash mid-sweep loses at most one batch of work
// that the next tick redoes.
type SweepDueParcelsCommandHandler struct {
	uowFactory FlowUoWFactory
	advancer   services.FlowAdvancer
	now        func() time.Time
}

// NewSweepDueParcelsCommandHandler creates a handler for sweep commands.
func NewSweepDueParcelsCommandHandler(
	uowFactory FlowUoWFactory,
	advancer services.FlowAdvancer,
) SweepDueParcelsCommandHandler {
	return SweepDueParcelsCommandHandler{
		uowFactory: uowFactory,
		advancer:   advancer,
		now:        time.Now,
	}
}

// NewSweepDueParcelsCommandHandlerWithClock creates a handler with an
// injected time source. Used by tests.
func NewSweepDueParcelsCommandHandlerWithClock(
	uowFactory FlowUoWFactory,
	advancer services.FlowAdvancer,
	now func() time.Time,
) SweepDueParcelsCommandHandler {
	handler := NewSweepDueParcelsCommandHandler(uowFactory, advancer)
	handler.now = now
	return handler
}

// Handle sweeps batches of due parcels until a batch comes back short,
// which means the backlog is drained. The timestamp is taken once per run
// so every batch sees the same notion of "due".
func (h *SweepDueParcelsCommandHandler) Handle(
	ctx context.Context,
	cmd SweepDueParcelsCommand,
) (SweepResult, error) {
	var result SweepResult

	if err := cmd.Validate(); err != nil {
		return result, err
	}

	now := h.now()

	for {
		batchSize, batchChanged, err := h.sweepBatch(ctx, cmd.BatchSize(), now)
		if err != nil {
			return result, err
		}

		result.Processed += batchSize
		result.Changed += batchChanged

		if batchSize < cmd.BatchSize() {
			return result, nil
		}
		// A full batch where nothing moved means the due predicate and the
		// advancer disagree on these rows; looping again would spin forever
		// on the same batch.
		if batchChanged == 0 {
			return result, nil
		}
	}
}

// sweepBatch locks and advances one batch in a single transaction.
func (h *SweepDueParcelsCommandHandler) sweepBatch(
	ctx context.Context,
	limit int,
	now time.Time,
) (int, int, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcels, err := uow.ParcelRepository().GetDueBatchForUpdate(ctx, h.advancer.Timetable(), now, limit)
	if err != nil {
		return 0, 0, err
	}
	if len(parcels) == 0 {
		return 0, 0, nil
	}

	changed := 0
	for _, p := range parcels {
		events, moved := h.advancer.Advance(p, now)
		if !moved {
			continue
		}

		for _, event := range events {
			if err = uow.HistoryRepository().Append(ctx, p.ID(), event); err != nil {
				return 0, 0, err
			}
		}

		if err = uow.ParcelRepository().Update(ctx, p); err != nil {
			return 0, 0, err
		}
		changed++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, 0, err
	}

	return len(parcels), changed, nil
}
