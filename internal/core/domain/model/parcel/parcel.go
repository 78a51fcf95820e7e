package parcel

import (
	"errors"
	"time"

	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/pkg/errs"
)

var (
	// ErrParcelIsNotConstructed is returned when a Parcel instance was not
	// created through NewParcel or RestoreParcel.
	ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel or RestoreParcel constructor")

	// ErrFlowsAlreadyStarted is returned when StartFlows is called on a
	// parcel whose origin chain has already been started.
	ErrFlowsAlreadyStarted = errors.New("parcel flows have already been started")
)

// Parcel is the aggregate root of the tracking domain. It carries the
// current status plus the cursors of the two timed status chains: the
// origin-country chain (started at the first checkpoint scan) and the local
// chain (started at the same moment, terminated by the second scan).
//
// Invariants:
//   - Chain stages never regress and stay 0 until StartFlows is called.
//   - Status never moves to an earlier value.
//   - Received is terminal: no step, timer or scan changes the parcel after it.
//   - AtPickup is set exclusively through MarkArrivedAtPickup (second scan);
//     the origin timer's Received step does not override it.
type Parcel struct {
	id          kernel.UUID
	trackNumber kernel.TrackNumber
	ownerID     *kernel.UUID

	status Status

	originFlowStartedAt *time.Time
	originFlowStage     int

	localFlowStartedAt *time.Time
	localFlowStage     int

	createdAt time.Time

	isConstructed bool
}

// NewParcel creates a parcel for a freshly registered tracking code.
// The parcel starts in AwaitingOrigin with both chains unstarted.
func NewParcel(id kernel.UUID, trackNumber kernel.TrackNumber, now time.Time) (*Parcel, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := trackNumber.Validate(); err != nil {
		return nil, err
	}

	return &Parcel{
		id:            id,
		trackNumber:   trackNumber,
		status:        AwaitingOrigin,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreParcel reconstructs a parcel from persistence.
// Used by repositories; validates identity, status and stage bounds.
func RestoreParcel(
	id kernel.UUID,
	trackNumber kernel.TrackNumber,
	ownerID *kernel.UUID,
	status Status,
	originFlowStartedAt *time.Time,
	originFlowStage int,
	localFlowStartedAt *time.Time,
	localFlowStage int,
	createdAt time.Time,
) (*Parcel, error) {
	if err := errors.Join(
		id.Validate(),
		trackNumber.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if ownerID != nil {
		if err := ownerID.Validate(); err != nil {
			return nil, err
		}
	}

	if originFlowStage < 0 {
		return nil, errs.NewValueIsInvalidError("originFlowStage")
	}
	if localFlowStage < 0 {
		return nil, errs.NewValueIsInvalidError("localFlowStage")
	}

	return &Parcel{
		id:                  id,
		trackNumber:         trackNumber,
		ownerID:             ownerID,
		status:              status,
		originFlowStartedAt: originFlowStartedAt,
		originFlowStage:     originFlowStage,
		localFlowStartedAt:  localFlowStartedAt,
		localFlowStage:      localFlowStage,
		createdAt:           createdAt,
		isConstructed:       true,
	}, nil
}

// Validate ensures the Parcel instance was properly constructed.
func (p *Parcel) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrParcelIsNotConstructed
	}
	return nil
}

// IsEqual compares two parcels by their unique identifiers.
func (p *Parcel) IsEqual(other *Parcel) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the parcel's unique identifier.
func (p *Parcel) ID() kernel.UUID {
	return p.id
}

// TrackNumber returns the parcel's normalized tracking code.
func (p *Parcel) TrackNumber() kernel.TrackNumber {
	return p.trackNumber
}

// OwnerID returns the claiming client's identifier, or nil while unclaimed.
func (p *Parcel) OwnerID() *kernel.UUID {
	return p.ownerID
}

// Status returns the current status of the parcel.
func (p *Parcel) Status() Status {
	return p.status
}

// OriginFlowStartedAt returns the origin chain start time, nil if unstarted.
func (p *Parcel) OriginFlowStartedAt() *time.Time {
	return p.originFlowStartedAt
}

// OriginFlowStage returns how many origin chain steps have been applied.
func (p *Parcel) OriginFlowStage() int {
	return p.originFlowStage
}

// LocalFlowStartedAt returns the local chain start time, nil if unstarted.
func (p *Parcel) LocalFlowStartedAt() *time.Time {
	return p.localFlowStartedAt
}

// LocalFlowStage returns how many local chain steps have been applied.
func (p *Parcel) LocalFlowStage() int {
	return p.localFlowStage
}

// CreatedAt returns the registration time of the tracking code.
func (p *Parcel) CreatedAt() time.Time {
	return p.createdAt
}

// StartFlows starts both status chains at the given instant with stage 0.
// Called once, by the first checkpoint scan.
// Returns ErrFlowsAlreadyStarted on repeated invocation.
func (p *Parcel) StartFlows(now time.Time) error {
	if p.originFlowStartedAt != nil {
		return ErrFlowsAlreadyStarted
	}

	start := now
	p.originFlowStartedAt = &start
	p.originFlowStage = 0
	p.localFlowStartedAt = &start
	p.localFlowStage = 0
	return nil
}

// ApplyOriginStep advances the origin chain cursor to the given stage and,
// when setsStatus is true, moves the status forward to the step's status.
// Stages at or behind the current cursor, and any step on a Received
// parcel, are no-ops. Reports whether the parcel changed.
func (p *Parcel) ApplyOriginStep(stage int, status Status, setsStatus bool) bool {
	if p.status.IsTerminal() || stage <= p.originFlowStage {
		return false
	}

	p.originFlowStage = stage
	if setsStatus {
		p.raiseStatus(status)
	}
	return true
}

// ApplyLocalStep advances the local chain cursor to the given stage and,
// when setsStatus is true, moves the status forward to the step's status.
// Mirrors ApplyOriginStep; the flow tables guarantee the local chain never
// carries AtPickup, which stays reserved for the second scan.
func (p *Parcel) ApplyLocalStep(stage int, status Status, setsStatus bool) bool {
	if p.status.IsTerminal() || stage <= p.localFlowStage {
		return false
	}

	p.localFlowStage = stage
	if setsStatus {
		p.raiseStatus(status)
	}
	return true
}

// MarkReceived closes the parcel via the origin chain's terminal timer.
// A parcel already at the pickup point keeps AtPickup: the explicit second
// scan outranks the timer. Reports whether the parcel changed.
func (p *Parcel) MarkReceived() bool {
	if p.status == Received || p.status == AtPickup {
		return false
	}

	p.status = Received
	return true
}

// MarkArrivedAtPickup records the second checkpoint scan: status becomes
// AtPickup and the local chain cursor is raised to at least terminalStage so
// already-superseded local steps cannot re-fire later.
// Reports whether the parcel changed; no-op once Received or already AtPickup.
func (p *Parcel) MarkArrivedAtPickup(terminalStage int) bool {
	if p.status == Received || p.status == AtPickup {
		return false
	}

	p.status = AtPickup
	if p.localFlowStage < terminalStage {
		p.localFlowStage = terminalStage
	}
	return true
}

// Claim binds the parcel to a client. Reports whether the owner was set;
// a parcel that is already claimed is left untouched.
func (p *Parcel) Claim(ownerID kernel.UUID) (bool, error) {
	if err := ownerID.Validate(); err != nil {
		return false, err
	}

	if p.ownerID != nil {
		return false, nil
	}

	p.ownerID = &ownerID
	return true, nil
}

// IsOwnedBy reports whether the parcel is claimed by the given client.
func (p *Parcel) IsOwnedBy(ownerID kernel.UUID) bool {
	return p.ownerID != nil && p.ownerID.IsEqual(ownerID)
}

// raiseStatus moves the status forward, never backward.
func (p *Parcel) raiseStatus(status Status) {
	if status > p.status {
		p.status = status
	}
}
