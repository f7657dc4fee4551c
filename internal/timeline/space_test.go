package timeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaceConversions(t *testing.T) {
	s := DefaultSpace()

	assert.InDelta(t, 39.9, s.ToLocation(5), 1e-9)
	assert.InDelta(t, 5.0, s.ToTime(39.9), 1e-9)
	assert.InDelta(t, 788.0, s.MaxLocation(), 1e-9)
}

func TestSpaceRoundTrip(t *testing.T) {
	s := Space{Width: 640}
	for _, loc := range []float64{2, 17.25, 320, 630} {
		assert.InDelta(t, loc, s.ToLocation(s.ToTime(loc)), 1e-9)
	}
}

func TestZeroSpaceUsesDefaultWidth(t *testing.T) {
	var s Space

	assert.InDelta(t, DefaultSpace().ToLocation(50), s.ToLocation(50), 1e-9)
	assert.False(t, math.IsNaN(s.ToTime(10)))
}

func TestNewSpace(t *testing.T) {
	s, err := NewSpace(400)
	require.NoError(t, err)
	assert.Equal(t, 400.0, s.Width)

	for _, bad := range []float64{0, -5, 12, math.NaN(), math.Inf(1)} {
		_, err := NewSpace(bad)
		assert.Error(t, err, "width %v", bad)
	}
}

func TestInBounds(t *testing.T) {
	s := DefaultSpace()

	assert.True(t, s.InBounds(MinLocation))
	assert.True(t, s.InBounds(s.MaxLocation()))
	assert.False(t, s.InBounds(1.99))
	assert.False(t, s.InBounds(788.01))
}
