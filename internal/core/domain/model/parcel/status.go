package parcel

import (
	"fmt"

	"kargotrack/internal/pkg/errs"
)

// Status represents the lifecycle state of a parcel moving through the
// cross-border pipeline.
//
// Progression:
//
//	AwaitingOrigin ──> AtOrigin ──> InTransit ──┬──> AtPickup ──> (stays, scan priority)
//	                                            └──> Received  (origin timer)
//
// Later statuses compare greater than earlier ones, which is what the flow
// engine relies on to never regress a parcel. Received is terminal: no
// automatic advancement happens once it is reached.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// AwaitingOrigin is the initial status: the tracking code is registered
	// but the parcel has not yet been scanned at the origin warehouse.
	AwaitingOrigin

	// AtOrigin indicates the parcel has been received at the origin
	// warehouse (set by the first checkpoint scan or the offset-zero step).
	AtOrigin

	// InTransit indicates the parcel has left the origin warehouse and is
	// moving towards the destination country.
	InTransit

	// AtPickup indicates the parcel has arrived at the local pickup point.
	// Only the second checkpoint scan sets this status, never the flow engine.
	AtPickup

	// Received indicates the parcel has been handed over (or auto-closed by
	// the origin chain's terminal timer). Terminal state.
	Received
)

// getStatusStrings returns a map of Status values to their code names.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		AwaitingOrigin: "AwaitingOrigin",
		AtOrigin:       "AtOrigin",
		InTransit:      "InTransit",
		AtPickup:       "AtPickup",
		Received:       "Received",
	}
}

// getStatusLabels returns a map of Status values to the human-readable
// labels shown in the client portal and history timeline.
func getStatusLabels() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		AwaitingOrigin: "Awaiting arrival at the origin warehouse",
		AtOrigin:       "Received at the origin warehouse",
		InTransit:      "In transit",
		AtPickup:       "Arrived at the pickup point",
		Received:       "Received",
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s < AwaitingOrigin || s > Received {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the code name of the status.
// Implements fmt.Stringer; safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// DisplayLabel returns the human-readable label of the status for
// client-facing output.
func (s Status) DisplayLabel() string {
	if label, ok := getStatusLabels()[s]; ok {
		return label
	}
	return "Unknown"
}

// IsTerminal reports whether the status ends all automatic advancement.
func (s Status) IsTerminal() bool {
	return s == Received
}
