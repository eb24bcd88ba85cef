package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsignal/boundary-optimizer/internal/errors"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// hotspotSamples builds a dataset where values in [30, 34.5] move strongly
// and everything else barely moves.
func hotspotSamples() []types.PriceMovement {
	var values, movements []float64
	for v := 10.0; v <= 28; v += 2 {
		values = append(values, v)
		movements = append(movements, 0.5)
	}
	sign := 1.0
	for i := 0; i < 10; i++ {
		values = append(values, 30+0.5*float64(i))
		movements = append(movements, 3.0*sign)
		sign = -sign
	}
	for v := 44.0; v <= 70; v += 2 {
		values = append(values, v)
		movements = append(movements, 0.5)
	}
	return makeSamples(values, movements)
}

func TestFindOptimalBoundaries_InvalidMaxRanges(t *testing.T) {
	samples := uniformSamples(10, 0, 1, 2.0)

	_, err := FindOptimalBoundaries(samples, 1.5, 0)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = FindOptimalBoundaries(samples, 1.5, 51)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestFindOptimalBoundaries_EmptyInput(t *testing.T) {
	boundaries, err := FindOptimalBoundaries(nil, 1.5, 5)
	require.NoError(t, err)
	assert.Empty(t, boundaries)
}

func TestFindOptimalBoundaries_RespectsMaxRanges(t *testing.T) {
	boundaries, err := FindOptimalBoundaries(hotspotSamples(), 1.5, 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(boundaries), 3)
	assert.NotEmpty(t, boundaries)
}

func TestFindOptimalBoundaries_FindsHighMovementRegion(t *testing.T) {
	boundaries, err := FindOptimalBoundaries(hotspotSamples(), 1.5, 5)
	require.NoError(t, err)
	require.NotEmpty(t, boundaries)

	best := boundaries[0]
	assert.True(t, best.Contains(32), "best boundary should cover the high-movement region, got [%.1f, %.1f]", best.RangeLow, best.RangeHigh)
	assert.Equal(t, 1.0, best.HitRate)
	assert.InDelta(t, 3.0, best.ExpectedATRMove, 0.001)
}

func TestFindOptimalBoundaries_Invariants(t *testing.T) {
	samples := hotspotSamples()
	boundaries, err := FindOptimalBoundaries(samples, 1.5, 5)
	require.NoError(t, err)

	for i, b := range boundaries {
		assert.GreaterOrEqual(t, b.SampleCount, 3, "boundary %d", i)
		assert.Less(t, b.RangeLow, b.RangeHigh, "boundary %d", i)
		assert.GreaterOrEqual(t, b.HitRate, 0.0)
		assert.LessOrEqual(t, b.HitRate, 1.0)
		assert.Equal(t, "SlidingWindow", b.Method)
		if i > 0 {
			assert.GreaterOrEqual(t, boundaries[i-1].Confidence, b.Confidence, "boundaries must be ordered by confidence")
		}
	}
}

func TestSlidingWindowStrategy_Validate(t *testing.T) {
	s := NewSlidingWindowStrategy(1.5, 5)

	report := s.Validate(uniformSamples(2, 0, 1, 1))
	assert.False(t, report.IsValid())

	report = s.Validate(uniformSamples(10, 0, 1, 1))
	assert.True(t, report.IsValid())
	assert.NotEmpty(t, report.Warnings)

	report = s.Validate(uniformSamples(60, 0, 1, 1))
	assert.True(t, report.IsValid())
	assert.Empty(t, report.Warnings)
}
