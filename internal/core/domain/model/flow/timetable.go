package flow

import (
	"time"

	"kargotrack/internal/core/domain/model/parcel"

	"kargotrack/internal/pkg/errs"
)

// Timetable bundles everything time-driven about a deployment: both chains,
// the origin chain's terminal "received" timer and the minimum delay before
// the second checkpoint scan is accepted.
type Timetable struct {
	// Origin is the origin-country chain, started by the first scan.
	Origin Chain
	// Local is the local chain, started together with the origin chain and
	// terminated by the second scan. Its steps never set the parcel status.
	Local Chain
	// ReceivedAfter is the offset from the origin chain start after which a
	// parcel that never got a second scan is auto-closed as Received.
	ReceivedAfter time.Duration
	// ReceivedMessage is the ledger message of the terminal Received event.
	ReceivedMessage string
	// SecondScanDelay is the minimum time between the first and the second
	// checkpoint scan; earlier second scans are rejected as retryable.
	SecondScanDelay time.Duration
}

// Validate checks both chains plus the timetable-level settings. The local
// chain must not carry AtPickup or Received: those transitions belong to the
// second scan and to the origin terminal timer respectively.
func (t Timetable) Validate() error {
	if err := t.Origin.Validate(); err != nil {
		return err
	}
	if err := t.Local.Validate(); err != nil {
		return err
	}

	for _, step := range t.Local.Steps {
		if step.Status >= parcel.AtPickup {
			return errs.NewValueIsInvalidError(
				"local chain must not carry AtPickup or Received steps")
		}
	}

	if t.ReceivedAfter <= 0 {
		return errs.NewValueIsInvalidError("receivedAfter")
	}
	if t.ReceivedMessage == "" {
		return errs.NewValueIsRequiredError("receivedMessage")
	}
	if t.SecondScanDelay <= 0 {
		return errs.NewValueIsInvalidError("secondScanDelay")
	}
	return nil
}

// Default timetable thresholds. Offsets are measured from the first scan.
const (
	DefaultStorageAfter     = 10 * time.Second
	DefaultDispatchedAfter  = 48 * time.Hour
	DefaultBorderAfter      = 96 * time.Hour
	DefaultLocalHubAfter    = 120 * time.Hour
	DefaultLocalClassifyGap = 2 * time.Hour
	DefaultReceivedAfter    = 360 * time.Hour
	DefaultSecondScanDelay  = 48 * time.Hour
)

// DefaultTimetable returns the stock deployment timetable: a four-step
// origin chain, a two-step local chain, a 15-day received timer and a 48h
// second-scan gate. Deployments reshape it from configuration in the
// composition root.
func DefaultTimetable() Timetable {
	return Timetable{
		Origin: Chain{Steps: []Step{
			{
				Offset:     0,
				Status:     parcel.AtOrigin,
				SetsStatus: true,
				Message:    "Parcel has been received at the origin warehouse.",
			},
			{
				Offset:     DefaultStorageAfter,
				Status:     parcel.AtOrigin,
				SetsStatus: false,
				Message:    "Parcel moved to warehouse storage.",
			},
			{
				Offset:     DefaultDispatchedAfter,
				Status:     parcel.InTransit,
				SetsStatus: true,
				Message:    "Parcel dispatched from the warehouse and is in transit.",
			},
			{
				Offset:     DefaultBorderAfter,
				Status:     parcel.InTransit,
				SetsStatus: false,
				Message:    "Parcel is en route to the border crossing.",
			},
		}},
		Local: Chain{Steps: []Step{
			{
				Offset:     DefaultLocalHubAfter,
				Status:     parcel.InTransit,
				SetsStatus: false,
				Message:    "Parcel arrived at the local sorting hub.",
			},
			{
				Offset:     DefaultLocalHubAfter + DefaultLocalClassifyGap,
				Status:     parcel.InTransit,
				SetsStatus: false,
				Message:    "Parcel is being classified and processed.",
			},
		}},
		ReceivedAfter:   DefaultReceivedAfter,
		ReceivedMessage: "Parcel has been received.",
		SecondScanDelay: DefaultSecondScanDelay,
	}
}
