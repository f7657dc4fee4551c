package timeline

import (
	"math"

	"github.com/roach88/lightcone/internal/ir"
)

// Decision is the outcome of a reposition proposal.
type Decision int

const (
	// NoDecision is the zero value: no proposal was made.
	NoDecision Decision = iota
	// Accepted means the returned collection carries the new system time.
	Accepted
	// Suppressed means the event is held in the sticky zone of the event
	// it was just jumped past.
	Suppressed
	// OutOfBounds means the resolved location fell off the timeline.
	OutOfBounds
	// InvalidIndex means the index does not name an event.
	InvalidIndex
	// InvalidLocation means the raw location was NaN or infinite.
	InvalidLocation
)

func (d Decision) String() string {
	switch d {
	case NoDecision:
		return "none"
	case Accepted:
		return "accepted"
	case Suppressed:
		return "suppressed"
	case OutOfBounds:
		return "out_of_bounds"
	case InvalidIndex:
		return "invalid_index"
	case InvalidLocation:
		return "invalid_location"
	default:
		return "unknown"
	}
}

// MarshalText renders the decision by name.
func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Changed reports whether the proposal produced a new collection.
func (d Decision) Changed() bool {
	return d == Accepted
}

// Overlaps reports whether two locations are closer than ProximityWidth.
//
// Coinciding locations (separation 0) do NOT overlap. Two events at the
// same system time therefore never block each other. This hole is kept on
// purpose as the existing tie behavior but is suspect; see DESIGN.md.
func Overlaps(location, other float64) bool {
	return (location > other && location < other+ProximityWidth) ||
		(location+ProximityWidth > other && location < other)
}

// Sticky reports whether current sits exactly one ProximityWidth from
// overlap, i.e. the previous move already jumped the event past it.
func Sticky(current, overlap float64) bool {
	return math.Abs(current-(overlap-ProximityWidth)) < locationEpsilon ||
		math.Abs(current-(overlap+ProximityWidth)) < locationEpsilon
}

// JumpPast places the dragged event on the far side of overlap. A pointer
// moving left (proposed <= current) lands on the left side, otherwise the
// right.
func JumpPast(current, proposed, overlap float64) float64 {
	if current-proposed >= 0 {
		return overlap - ProximityWidth
	}
	return overlap + ProximityWidth
}

// ClampToOperation applies the per-operation time bound to a location:
// a READ cannot take effect after its ack, a WRITE or CAS cannot take
// effect before its send.
func (s Space) ClampToOperation(e ir.Event, location float64) float64 {
	location, _ = s.clamp(e, location)
	return location
}

// clamp returns the clamped location and the time to commit for it. When
// the bound applies the time is the bound itself, not the round trip
// through ToLocation, so a clamped event never lands past its bound.
func (s Space) clamp(e ir.Event, location float64) (float64, float64) {
	t := s.ToTime(location)
	switch e.Op {
	case ir.OpRead:
		if t > e.ClientAck {
			return s.ToLocation(e.ClientAck), e.ClientAck
		}
	case ir.OpWrite, ir.OpCAS:
		if t < e.ClientSend {
			return s.ToLocation(e.ClientSend), e.ClientSend
		}
	}
	return location, t
}

// FirstOverlap returns the location of the first event in display order,
// other than skip, that overlaps location.
func (s Space) FirstOverlap(events ir.Events, skip int, location float64) (float64, bool) {
	for i, e := range events {
		if i == skip {
			continue
		}
		other := s.ToLocation(e.SystemTime)
		if Overlaps(location, other) {
			return other, true
		}
	}
	return 0, false
}

// Resolve runs the constraint rules for moving events[index] toward raw and
// returns the location it would land on together with the system time to
// commit. It does not build a new collection.
func (s Space) Resolve(events ir.Events, index int, raw float64) (location, t float64, d Decision) {
	if index < 0 || index >= len(events) {
		return 0, 0, InvalidIndex
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, 0, InvalidLocation
	}
	e := events[index]

	location, t = s.clamp(e, raw)
	current := s.ToLocation(e.SystemTime)

	overlap, found := s.FirstOverlap(events, index, location)
	if found {
		if Sticky(current, overlap) {
			return current, e.SystemTime, Suppressed
		}
		location = JumpPast(current, location, overlap)
		t = s.ToTime(location)
	}

	if !s.InBounds(location) {
		return location, t, OutOfBounds
	}
	return location, t, Accepted
}

// Propose moves events[index] toward the raw pointer location. An accepted
// proposal returns a new collection in which only that event's system time
// changed; any other decision returns events itself.
func (s Space) Propose(events ir.Events, index int, raw float64) (ir.Events, Decision) {
	_, t, decision := s.Resolve(events, index, raw)
	if decision != Accepted {
		return events, decision
	}
	return events.WithSystemTime(index, t), Accepted
}
