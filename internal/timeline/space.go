package timeline

import (
	"fmt"
	"math"
)

const (
	// DefaultWidth is the timeline width in location units.
	DefaultWidth = 798.0

	// TimeRange is the span of system time shown across the timeline.
	TimeRange = 100.0

	// ProximityWidth is how close two events may sit; it is also the width
	// of an event marker.
	ProximityWidth = 10.0

	// MinLocation is the leftmost accepted location.
	MinLocation = 2.0

	// locationEpsilon absorbs time/location round-trip error when deciding
	// whether an event sits exactly one ProximityWidth from another.
	locationEpsilon = 1e-6
)

// Space converts between system time and timeline location.
type Space struct {
	Width float64
}

// NewSpace returns a space of the given width. The width must leave room
// for at least one marker between MinLocation and the right margin.
func NewSpace(width float64) (Space, error) {
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= MinLocation+ProximityWidth {
		return Space{}, fmt.Errorf("timeline width must be finite and greater than %g, got %v",
			MinLocation+ProximityWidth, width)
	}
	return Space{Width: width}, nil
}

// DefaultSpace is the space of a DefaultWidth timeline.
func DefaultSpace() Space {
	return Space{Width: DefaultWidth}
}

// width falls back to DefaultWidth for a zero or invalid Space, so the
// conversions never divide by zero.
func (s Space) width() float64 {
	if s.Width <= 0 || math.IsNaN(s.Width) || math.IsInf(s.Width, 0) {
		return DefaultWidth
	}
	return s.Width
}

// ToLocation maps a system time to a location.
func (s Space) ToLocation(t float64) float64 {
	return t / TimeRange * s.width()
}

// ToTime maps a location to a system time.
func (s Space) ToTime(location float64) float64 {
	return location * TimeRange / s.width()
}

// MaxLocation is the rightmost accepted location.
func (s Space) MaxLocation() float64 {
	return s.width() - ProximityWidth
}

// InBounds reports whether location may be committed.
func (s Space) InBounds(location float64) bool {
	return location >= MinLocation && location <= s.MaxLocation()
}
