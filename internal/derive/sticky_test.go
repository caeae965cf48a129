package derive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStickyRetainsLastValidValue(t *testing.T) {
	var s Sticky

	// Two-tick simulation: a valid price followed by a dropped source.
	s = s.Observe(fptr(5.0))
	s = s.Observe(nil)

	value := s.Value()
	require.NotNil(t, value)
	assert.Equal(t, 5.0, *value)
}

func TestStickyStartsEmpty(t *testing.T) {
	var s Sticky
	assert.Nil(t, s.Value())

	s = s.Observe(nil)
	assert.Nil(t, s.Value())
}

func TestStickyReplacesWithNewerValid(t *testing.T) {
	var s Sticky
	s = s.Observe(fptr(5.0))
	s = s.Observe(fptr(6.0))

	value := s.Value()
	require.NotNil(t, value)
	assert.Equal(t, 6.0, *value)
}

func TestStickyRejectsInvalidSamples(t *testing.T) {
	var s Sticky
	s = s.Observe(fptr(5.0))

	for _, sample := range []*float64{nil, fptr(0), fptr(-1), fptr(math.NaN()), fptr(math.Inf(1))} {
		s = s.Observe(sample)
		value := s.Value()
		require.NotNil(t, value)
		assert.Equal(t, 5.0, *value)
	}
}

func TestStickyObserveIsPure(t *testing.T) {
	var first Sticky
	second := first.Observe(fptr(5.0))

	assert.Nil(t, first.Value())
	assert.NotNil(t, second.Value())
}
