package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/core/domain/model/parcel"
	"kargotrack/internal/core/domain/model/pickuppoint"
	"kargotrack/internal/core/domain/services"
	"kargotrack/internal/pkg/errs"
)

// Scan confirmation messages returned to the staff panel.
const (
	firstScanMessage       = "First scan: parcel registered at the origin warehouse."
	secondScanMessage      = "Second scan: parcel arrived at the pickup point."
	alreadyReceivedMessage = "Parcel is already in the Received status."
	alreadyAtPickupMessage = "Second scan already done: parcel is at the pickup point."
)

// ProcessCheckpointScanCommandHandler implements the two-scan checkpoint
// protocol. The first scan on a tracking code creates the parcel if needed
// and starts both status chains; a later scan, once the configured delay has
// elapsed, terminates the local chain with the arrival-at-pickup event.
//
// The whole scan runs in one transaction under an exclusive row lock on the
// parcel, so two concurrent scans of the same code cannot double-start the
// chains or double-write the pickup event.
type ProcessCheckpointScanCommandHandler struct {
	uowFactory UoWFactory
	advancer   services.FlowAdvancer
	now        func() time.Time
}

// NewProcessCheckpointScanCommandHandler creates a handler for checkpoint scans.
func NewProcessCheckpointScanCommandHandler(
	uowFactory UoWFactory,
	advancer services.FlowAdvancer,
) ProcessCheckpointScanCommandHandler {
	return ProcessCheckpointScanCommandHandler{
		uowFactory: uowFactory,
		advancer:   advancer,
		now:        time.Now,
	}
}

// NewProcessCheckpointScanCommandHandlerWithClock creates a handler with an
// injected time source. Used by tests to exercise the timing gate.
func NewProcessCheckpointScanCommandHandlerWithClock(
	uowFactory UoWFactory,
	advancer services.FlowAdvancer,
	now func() time.Time,
) ProcessCheckpointScanCommandHandler {
	handler := NewProcessCheckpointScanCommandHandler(uowFactory, advancer)
	handler.now = now
	return handler
}

// Handle processes one checkpoint scan and returns a human-readable
// confirmation. A second scan attempted before the configured delay is
// rejected with a SecondScanNotReadyError carrying the remaining wait;
// nothing is persisted in that case.
func (h *ProcessCheckpointScanCommandHandler) Handle(
	ctx context.Context,
	cmd ProcessCheckpointScanCommand,
) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	now := h.now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcelRepo := uow.ParcelRepository()

	p, err := h.lockOrCreateParcel(ctx, uow, cmd.TrackNumber(), now)
	if err != nil {
		return "", err
	}

	if p.OriginFlowStartedAt() == nil {
		return h.handleFirstScan(ctx, uow, p, now)
	}

	gateOpensAt := p.OriginFlowStartedAt().Add(h.advancer.Timetable().SecondScanDelay)
	if now.Before(gateOpensAt) {
		return "", NewSecondScanNotReadyError(gateOpensAt.Sub(now))
	}

	events, changed := h.advancer.Advance(p, now)
	if err = h.appendEvents(ctx, uow, p.ID(), events); err != nil {
		return "", err
	}

	if p.Status() == parcel.Received || p.Status() == parcel.AtPickup {
		if changed {
			if err = parcelRepo.Update(ctx, p); err != nil {
				return "", err
			}
		}
		if err = uow.Commit(ctx); err != nil {
			return "", err
		}
		if p.Status() == parcel.Received {
			return alreadyReceivedMessage, nil
		}
		return alreadyAtPickupMessage, nil
	}

	point := h.findPickupPoint(ctx, uow, cmd.PickupPointID())

	event, err := parcel.NewHistoryEvent(parcel.AtPickup, arrivalMessage(p.TrackNumber(), point), now)
	if err != nil {
		return "", err
	}
	if err = uow.HistoryRepository().Append(ctx, p.ID(), event); err != nil {
		return "", err
	}

	p.MarkArrivedAtPickup(h.advancer.Timetable().Local.TerminalStage())
	if err = parcelRepo.Update(ctx, p); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return secondScanMessage, nil
}

// lockOrCreateParcel loads the parcel under an exclusive row lock, creating
// it in AwaitingOrigin when the tracking code has never been seen.
func (h *ProcessCheckpointScanCommandHandler) lockOrCreateParcel(
	ctx context.Context,
	uow UoW,
	trackNumber kernel.TrackNumber,
	now time.Time,
) (*parcel.Parcel, error) {
	parcelRepo := uow.ParcelRepository()

	p, err := parcelRepo.GetByTrackNumberForUpdate(ctx, trackNumber)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	p, err = parcel.NewParcel(kernel.NewUUID(), trackNumber, now)
	if err != nil {
		return nil, err
	}
	if err = parcelRepo.Add(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// handleFirstScan starts both chains and catches the parcel up, which fires
// the origin chain's offset-zero step and writes its ledger row at now.
func (h *ProcessCheckpointScanCommandHandler) handleFirstScan(
	ctx context.Context,
	uow UoW,
	p *parcel.Parcel,
	now time.Time,
) (string, error) {
	if err := p.StartFlows(now); err != nil {
		return "", err
	}

	events, _ := h.advancer.Advance(p, now)
	if err := h.appendEvents(ctx, uow, p.ID(), events); err != nil {
		return "", err
	}

	if err := uow.ParcelRepository().Update(ctx, p); err != nil {
		return "", err
	}

	if err := uow.Commit(ctx); err != nil {
		return "", err
	}

	return firstScanMessage, nil
}

// appendEvents writes ledger rows produced by the advancer.
func (h *ProcessCheckpointScanCommandHandler) appendEvents(
	ctx context.Context,
	uow UoW,
	parcelID kernel.UUID,
	events []*parcel.HistoryEvent,
) error {
	historyRepo := uow.HistoryRepository()
	for _, event := range events {
		if err := historyRepo.Append(ctx, parcelID, event); err != nil {
			return err
		}
	}
	return nil
}

// findPickupPoint resolves the scanning staff's pickup point. A missing or
// unknown point is not an error: the arrival message just omits the details.
func (h *ProcessCheckpointScanCommandHandler) findPickupPoint(
	ctx context.Context,
	uow UoW,
	pointID *kernel.UUID,
) *pickuppoint.PickupPoint {
	if pointID == nil {
		return nil
	}

	point, err := uow.PickupPointRepository().Get(ctx, *pointID)
	if err != nil {
		return nil
	}
	return point
}

// arrivalMessage composes the second-scan ledger message, including the
// pickup point's contact details when known.
func arrivalMessage(trackNumber kernel.TrackNumber, point *pickuppoint.PickupPoint) string {
	var b strings.Builder

	if point != nil {
		fmt.Fprintf(&b, "Parcel arrived at the pickup point %s", point.Name())
	} else {
		b.WriteString("Parcel arrived at the pickup point")
	}
	fmt.Fprintf(&b, "\ntrack number: %s", trackNumber)

	if point != nil {
		if point.Address() != "" {
			fmt.Fprintf(&b, "\naddress: %s", point.Address())
		}
		if point.Phone() != "" {
			fmt.Fprintf(&b, "\nphone: %s", point.Phone())
		}
	}

	return b.String()
}
