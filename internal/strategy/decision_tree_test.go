package strategy

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsignal/boundary-optimizer/internal/errors"
)

func TestOptimizeWithDecisionTree_InvalidDepth(t *testing.T) {
	samples := uniformSamples(10, 0, 1, 2.0)

	_, err := OptimizeWithDecisionTree(samples, 0)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = OptimizeWithDecisionTree(samples, 21)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestOptimizeWithDecisionTree_InsufficientData(t *testing.T) {
	samples := uniformSamples(1, 0, 1, 2.0)

	_, err := OptimizeWithDecisionTree(samples, 5)
	assert.True(t, errors.IsInsufficientData(err))
}

func TestOptimizeWithDecisionTree_GapSplits(t *testing.T) {
	// Three well-separated value clusters with identical movement. The only
	// structure is the gaps, so the splits must land at the gap midpoints.
	var values []float64
	for v := 10.0; v <= 15; v++ {
		values = append(values, v)
	}
	for v := 30.0; v <= 35; v++ {
		values = append(values, v)
	}
	for v := 62.0; v <= 68; v++ {
		values = append(values, v)
	}
	movements := make([]float64, len(values))
	for i := range movements {
		movements[i] = 2.0
	}
	samples := makeSamples(values, movements)

	splits, err := OptimizeWithDecisionTree(samples, 5)
	require.NoError(t, err)
	require.Len(t, splits, 2)
	assert.InDelta(t, 22.5, splits[0], 0.001)
	assert.InDelta(t, 48.5, splits[1], 0.001)
}

func TestOptimizeWithDecisionTree_CapsToMaxDepth(t *testing.T) {
	// Movement flips between quiet and active blocks, producing many
	// behavior-change splits that must be reduced to maxDepth.
	values := make([]float64, 20)
	movements := make([]float64, 20)
	for i := range values {
		values[i] = float64(i) * 2
		if (i/4)%2 == 0 {
			movements[i] = 0.0
		} else {
			movements[i] = 3.0
		}
	}
	samples := makeSamples(values, movements)

	splits, err := OptimizeWithDecisionTree(samples, 2)
	require.NoError(t, err)
	assert.Len(t, splits, 2)
	assert.True(t, sort.Float64sAreSorted(splits))
}

func TestDecisionTreeStrategy_Optimize_SegmentBoundaries(t *testing.T) {
	var values, movements []float64
	for v := 10.0; v <= 15; v++ {
		values = append(values, v)
		movements = append(movements, 0.5)
	}
	for v := 30.0; v <= 35; v++ {
		values = append(values, v)
		movements = append(movements, 3.0)
	}
	for v := 62.0; v <= 68; v++ {
		values = append(values, v)
		movements = append(movements, 0.5)
	}
	samples := makeSamples(values, movements)

	s := NewDecisionTreeStrategy(1.5, 5)
	boundaries, err := s.Optimize(samples)
	require.NoError(t, err)
	require.NotEmpty(t, boundaries)

	for _, b := range boundaries {
		assert.Equal(t, "DecisionTree", b.Method)
		assert.Greater(t, b.SampleCount, 0)
		assert.LessOrEqual(t, b.RangeLow, b.RangeHigh)
	}

	// The middle segment holds the strong movers and must show a high hit
	// rate against the 1.5 target.
	found := false
	for _, b := range boundaries {
		if b.Contains(32) {
			found = true
			assert.Equal(t, 1.0, b.HitRate)
		}
	}
	assert.True(t, found, "no boundary covers the active segment")
}

func TestDecisionTreeStrategy_Validate(t *testing.T) {
	s := NewDecisionTreeStrategy(1.5, 5)

	assert.False(t, s.Validate(nil).IsValid())
	assert.False(t, s.Validate(uniformSamples(1, 0, 1, 1)).IsValid())

	report := s.Validate(uniformSamples(4, 0, 1, 1))
	assert.True(t, report.IsValid())
	assert.NotEmpty(t, report.Warnings)

	assert.Empty(t, s.Validate(uniformSamples(20, 0, 1, 1)).Warnings)
}
