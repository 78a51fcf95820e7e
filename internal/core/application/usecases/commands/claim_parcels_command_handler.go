package commands

import (
	"context"
	"errors"
	"time"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/core/domain/model/parcel"
	"kargotrack/internal/pkg/errs"
)

// ClaimOutcome describes what happened to one tracking code in a claim batch.
type ClaimOutcome string

const (
	// ClaimOutcomeClaimed means the parcel was unowned and is now bound
	// to the client.
	ClaimOutcomeClaimed ClaimOutcome = "claimed"
	// ClaimOutcomeAlreadyYours means the client had claimed this parcel before.
	ClaimOutcomeAlreadyYours ClaimOutcome = "already_yours"
	// ClaimOutcomeTaken means another client holds the parcel.
	ClaimOutcomeTaken ClaimOutcome = "taken"
	// ClaimOutcomeRegistered means the tracking code was unknown: the parcel
	// was registered in AwaitingOrigin and bound to the client in one go.
	ClaimOutcomeRegistered ClaimOutcome = "registered"
)

// ClaimResult reports the outcome for one tracking code.
type ClaimResult struct {
	TrackNumber string
	Outcome     ClaimOutcome
}

// ClaimParcelsCommandHandler binds tracking codes to clients. The whole
// batch runs in one transaction with each found parcel locked, so two
// clients claiming the same code concurrently serialize and exactly one
// wins.
type ClaimParcelsCommandHandler struct {
	uowFactory ParcelUoWFactory
	now        func() time.Time
}

// NewClaimParcelsCommandHandler creates a handler for claim commands.
func NewClaimParcelsCommandHandler(uowFactory ParcelUoWFactory) ClaimParcelsCommandHandler {
	return NewClaimParcelsCommandHandlerWithClock(uowFactory, time.Now)
}

// NewClaimParcelsCommandHandlerWithClock creates a handler with an explicit
// clock, used to pin registration timestamps in tests.
func NewClaimParcelsCommandHandlerWithClock(
	uowFactory ParcelUoWFactory,
	now func() time.Time,
) ClaimParcelsCommandHandler {
	return ClaimParcelsCommandHandler{uowFactory: uowFactory, now: now}
}

// Handle claims each tracking code for the client and reports per-code
// outcomes. Unknown codes are registered on the spot, the way the cabinet
// lets clients add a code before its first scan; already-taken codes do not
// fail the batch.
func (h *ClaimParcelsCommandHandler) Handle(
	ctx context.Context,
	cmd ClaimParcelsCommand,
) ([]ClaimResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcelRepo := uow.ParcelRepository()

	results := make([]ClaimResult, 0, len(cmd.TrackNumbers()))
	for _, trackNumber := range cmd.TrackNumbers() {
		result := ClaimResult{TrackNumber: trackNumber.String()}

		p, err := parcelRepo.GetByTrackNumberForUpdate(ctx, trackNumber)
		if err != nil {
			if !errors.Is(err, errs.ErrObjectNotFound) {
				return nil, err
			}

			p, err = parcel.NewParcel(kernel.NewUUID(), trackNumber, h.now())
			if err != nil {
				return nil, err
			}
			if _, err = p.Claim(cmd.OwnerID()); err != nil {
				return nil, err
			}
			if err = parcelRepo.Add(ctx, p); err != nil {
				return nil, err
			}

			result.Outcome = ClaimOutcomeRegistered
			results = append(results, result)
			continue
		}

		claimed, err := p.Claim(cmd.OwnerID())
		if err != nil {
			return nil, err
		}

		switch {
		case claimed:
			if err = parcelRepo.Update(ctx, p); err != nil {
				return nil, err
			}
			result.Outcome = ClaimOutcomeClaimed
		case p.IsOwnedBy(cmd.OwnerID()):
			result.Outcome = ClaimOutcomeAlreadyYours
		default:
			result.Outcome = ClaimOutcomeTaken
		}

		results = append(results, result)
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return results, nil
}
