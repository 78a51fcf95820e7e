package services

import (
	"time"

	"kargotrack/internal/core/domain/model/flow"
	"kargotrack/internal/core/domain/model/parcel"
)

// FlowAdvancer is the domain service that catches a parcel up with elapsed
// time: it applies every due step of both chains, produces the matching
// ledger events and moves the parcel's stage cursors and status forward.
//
// Key properties:
//   - Deterministic event times: a due step's event is stamped with
//     chain start + step offset, never with the wall clock of the run.
//   - Idempotent: re-running with the same (or an earlier) now yields no
//     further changes; the ledger's uniqueness key absorbs racing
//     duplicate event writes.
//   - The local chain never sets AtPickup; the origin terminal timer never
//     overrides an AtPickup set by an explicit second scan.
//
// The advancer does not persist anything. Callers append the returned
// events and save the parcel inside one transaction, holding an exclusive
// row lock on the parcel, so a crash leaves the parcel consistent with a
// prefix of the due steps.
//
// Example usage:
//
//	advancer := NewFlowAdvancer(flow.DefaultTimetable())
//	events, changed := advancer.Advance(p, time.Now())
//	if changed {
//	    // append events, update parcel, commit
//	}
type FlowAdvancer struct {
	timetable flow.Timetable
}

// NewFlowAdvancer creates a FlowAdvancer for the given timetable.
func NewFlowAdvancer(timetable flow.Timetable) FlowAdvancer {
	return FlowAdvancer{timetable: timetable}
}

// Timetable returns the timetable the advancer runs on.
func (a FlowAdvancer) Timetable() flow.Timetable {
	return a.timetable
}

// Advance applies every due step of both chains to the parcel and returns
// the ledger events to append, plus whether the parcel changed. Events come
// out in the order the steps were applied: origin steps, the terminal
// received event if due, then local steps.
func (a FlowAdvancer) Advance(p *parcel.Parcel, now time.Time) ([]*parcel.HistoryEvent, bool) {
	if err := p.Validate(); err != nil {
		return nil, false
	}

	var events []*parcel.HistoryEvent
	changed := false

	events, changed = a.advanceOrigin(p, now, events, changed)
	events, changed = a.advanceTerminal(p, now, events, changed)
	events, changed = a.advanceLocal(p, now, events, changed)

	return events, changed
}

// advanceOrigin applies due origin chain steps.
func (a FlowAdvancer) advanceOrigin(
	p *parcel.Parcel, now time.Time, events []*parcel.HistoryEvent, changed bool,
) ([]*parcel.HistoryEvent, bool) {
	startedAt := p.OriginFlowStartedAt()
	if startedAt == nil || p.OriginFlowStage() >= a.timetable.Origin.StepCount() {
		return events, changed
	}

	for _, due := range a.timetable.Origin.DueSteps(*startedAt, now, p.OriginFlowStage()) {
		if !p.ApplyOriginStep(due.Stage, due.Step.Status, due.Step.SetsStatus) {
			continue
		}

		event, err := parcel.NewHistoryEvent(due.Step.Status, due.Step.Message, due.OccurredAt)
		if err != nil {
			continue
		}
		events = append(events, event)
		changed = true
	}

	return events, changed
}

// advanceTerminal fires the origin chain's terminal "received" timer.
// An AtPickup parcel is left alone: the explicit scan outranks the timer.
func (a FlowAdvancer) advanceTerminal(
	p *parcel.Parcel, now time.Time, events []*parcel.HistoryEvent, changed bool,
) ([]*parcel.HistoryEvent, bool) {
	startedAt := p.OriginFlowStartedAt()
	if startedAt == nil || now.Sub(*startedAt) < a.timetable.ReceivedAfter {
		return events, changed
	}

	if !p.MarkReceived() {
		return events, changed
	}

	event, err := parcel.NewHistoryEvent(
		parcel.Received,
		a.timetable.ReceivedMessage,
		startedAt.Add(a.timetable.ReceivedAfter),
	)
	if err != nil {
		return events, changed
	}

	return append(events, event), true
}

// advanceLocal applies due local chain steps. The timetable guarantees the
// local chain never carries AtPickup; that transition is reserved for the
// second checkpoint scan.
func (a FlowAdvancer) advanceLocal(
	p *parcel.Parcel, now time.Time, events []*parcel.HistoryEvent, changed bool,
) ([]*parcel.HistoryEvent, bool) {
	startedAt := p.LocalFlowStartedAt()
	if startedAt == nil || p.Status().IsTerminal() {
		return events, changed
	}
	if p.LocalFlowStage() >= a.timetable.Local.StepCount() {
		return events, changed
	}

	for _, due := range a.timetable.Local.DueSteps(*startedAt, now, p.LocalFlowStage()) {
		if !p.ApplyLocalStep(due.Stage, due.Step.Status, due.Step.SetsStatus) {
			continue
		}

		event, err := parcel.NewHistoryEvent(due.Step.Status, due.Step.Message, due.OccurredAt)
		if err != nil {
			continue
		}
		events = append(events, event)
		changed = true
	}

	return events, changed
}
