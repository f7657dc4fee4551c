package frame

import (
	"errors"
	"math"

	"github.com/roach88/lightcone/internal/ir"
)

const (
	// GraphSize is the side of the square plane events are drawn on.
	GraphSize = 300.0

	// NumLines is the number of grid lines across the plane.
	NumLines = 7

	// LineSpacing is the distance between grid lines.
	LineSpacing = GraphSize / NumLines

	// HandleLocation is the grid line the basis handle sits on.
	HandleLocation = 3

	// IdentityStretch leaves every event where it is.
	IdentityStretch = 1.0

	// TimeRange is the span of system time mapped onto the plane.
	TimeRange = 100.0
)

var (
	// MaxStretch is where the basis reaches the light cone.
	MaxStretch = math.Sqrt2

	// LightConeCoordinate is each component of the saturated basis vectors.
	LightConeCoordinate = math.Sqrt(0.5)

	// ErrInvalidStretch is returned for a negative or non-finite stretch.
	ErrInvalidStretch = errors.New("stretch factor must be a finite number >= 0")
)

// Vec is a point or direction on the plane.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Basis is the skewed coordinate basis for one stretch factor.
type Basis struct {
	I Vec `json:"i"`
	J Vec `json:"j"`

	// Saturated is set when s*s >= 2 and both vectors sit on the light cone.
	Saturated bool `json:"saturated"`
}

// BasisFor computes the basis for stretch factor s. Values with s*s >= 2
// saturate to the light cone rather than taking the square root of a
// negative number.
func BasisFor(s float64) Basis {
	if s*s >= 2 {
		c := LightConeCoordinate
		return Basis{I: Vec{c, c}, J: Vec{c, c}, Saturated: true}
	}
	f := math.Sqrt((1 - s*s/2) / 2)
	return Basis{
		I: Vec{s/2 + f, s/2 - f},
		J: Vec{s/2 - f, s/2 + f},
	}
}

// ValidStretch reports whether s can be used to build a basis.
func ValidStretch(s float64) bool {
	return !math.IsNaN(s) && !math.IsInf(s, 0) && s >= 0
}

// LaneY is the fixed vertical coordinate of a client's events.
func LaneY(c ir.ClientID) float64 {
	if c == ir.ClientB {
		return GraphSize - LineSpacing
	}
	return GraphSize - (NumLines-1)*LineSpacing
}

// ToGraphX maps a system time onto the horizontal axis.
func ToGraphX(t float64) float64 {
	return t / TimeRange * GraphSize
}

// FromGraphX maps a horizontal distance back to a system time.
func FromGraphX(x float64) float64 {
	return x / GraphSize * TimeRange
}

// Point is where an event sits on the plane in the rest frame.
func Point(e ir.Event) Vec {
	return Vec{X: ToGraphX(e.SystemTime), Y: LaneY(e.Client)}
}

// StretchFromHandle maps a drag of the basis handle by (dx, dy) to a new
// stretch factor, starting from the factor in effect when the drag began.
// Dragging right/up grows the stretch. A result below 0 is rejected.
func StretchFromHandle(dx, dy, atClick float64) (float64, error) {
	g := LineSpacing * HandleLocation
	projection := (dx - dy) / 2
	s := (projection + g*atClick) / g
	if !ValidStretch(s) {
		return atClick, ErrInvalidStretch
	}
	return s, nil
}
