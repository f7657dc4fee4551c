package frame

import (
	"fmt"
	"math"

	"github.com/roach88/lightcone/internal/ir"
)

// Lorentz-like factor fit for the expansion branch of VelocityFor.
const (
	expansionSlope     = -2.2727
	expansionIntercept = 3.223
)

// Project slides p along J until it meets the I axis and returns the
// meeting point. The horizontal coordinate is clamped to [0, GraphSize].
func Project(p Vec, b Basis) Vec {
	// J is vertical (s = 1): the I axis is the horizontal axis itself.
	if b.J.X == 0 {
		return Vec{X: p.X, Y: 0}
	}

	slope := b.J.Y / b.J.X
	offset := p.Y - slope*p.X
	iSlope := b.I.Y / b.I.X

	if slope == iSlope {
		return collinearLimit(p, b, slope, offset)
	}

	x := clamp(offset/(iSlope-slope), 0, GraphSize)
	return Vec{X: x, Y: slope*x + offset}
}

// collinearLimit handles I parallel to J, which happens only at s = 0 and on
// the light cone. The intersection runs off to infinity as s approaches
// either value, so it is pinned to the clamp bound it converges to. At the
// light cone the denominator approaches 0 from below; at s = 0 from above.
// A point already on the shared line projects to itself.
func collinearLimit(p Vec, b Basis, slope, offset float64) Vec {
	if offset == 0 {
		return p
	}
	approach := 1.0
	if b.Saturated {
		approach = -1.0
	}
	x := 0.0
	if (offset > 0) == (approach > 0) {
		x = GraphSize
	}
	return Vec{X: x, Y: slope*x + offset}
}

// SignedDistance is the distance from the origin to q, negative when q lies
// left of the vertical axis. At X == 0 it takes the value approached from
// the right, so it is never NaN.
func SignedDistance(q Vec) float64 {
	d := math.Hypot(q.X, q.Y)
	if q.X < 0 {
		return -d
	}
	return d
}

// ReprojectTime is the system time of e in the frame with basis b.
func ReprojectTime(e ir.Event, b Basis) float64 {
	return FromGraphX(SignedDistance(Project(Point(e), b)))
}

// Transform reprojects every event into the frame with stretch factor s and
// returns the new collection with the display velocity. Only SystemTime
// changes; ids and display order are preserved. s = 1 returns an unchanged
// copy. A negative or non-finite s returns ErrInvalidStretch.
func Transform(events ir.Events, s float64) (ir.Events, Velocity, error) {
	if !ValidStretch(s) {
		return nil, 0, fmt.Errorf("transform: %w: got %v", ErrInvalidStretch, s)
	}
	if s == IdentityStretch {
		return events.Clone(), VelocityFor(s), nil
	}

	b := BasisFor(s)
	out := events.Clone()
	for i, e := range out {
		out[i].SystemTime = ReprojectTime(e, b)
	}
	return out, VelocityFor(s), nil
}

// Velocity is the cosmetic speed readout for a boosted frame, as a fraction
// of the speed of light. It never feeds back into validation.
type Velocity float64

// VelocityFor maps a stretch factor to a display velocity. Contraction
// (s < 1) reads negative; expansion reads positive. The Lorentz-like factor
// is clamped so the square root never sees a negative radicand.
func VelocityFor(s float64) Velocity {
	sign := 1.0
	var factor float64
	if s < 1 {
		sign = -1
		factor = math.Max(s, 0)
	} else {
		factor = expansionSlope*math.Min(s, MaxStretch) + expansionIntercept
	}

	radicand := 1 - factor*factor
	if radicand < 0 {
		radicand = 0
	}
	return Velocity(sign * math.Sqrt(radicand))
}

// String renders the readout, e.g. "v = +0.3113c".
func (v Velocity) String() string {
	sign := ""
	if v >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("v = %s%.4fc", sign, float64(v))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
