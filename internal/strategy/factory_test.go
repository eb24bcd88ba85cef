package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

func TestNewEnabledStrategies_AllEnabled(t *testing.T) {
	samples := uniformSamples(40, 0, 1, 2.0)
	strategies := NewEnabledStrategies(testConfig(), samples)

	require.Len(t, strategies, 3)
	assert.Equal(t, "DecisionTree", strategies[0].Name())
	assert.Equal(t, "Clustering", strategies[1].Name())
	assert.Equal(t, "GradientSearch", strategies[2].Name())
	for _, s := range strategies {
		assert.True(t, s.IsEnabled())
	}
}

func TestNewEnabledStrategies_Toggles(t *testing.T) {
	samples := uniformSamples(40, 0, 1, 2.0)

	cfg := testConfig()
	cfg.EnableClustering = false
	cfg.EnableGradient = false

	strategies := NewEnabledStrategies(cfg, samples)
	require.Len(t, strategies, 1)
	assert.Equal(t, "DecisionTree", strategies[0].Name())

	cfg.EnableDecisionTree = false
	assert.Empty(t, NewEnabledStrategies(cfg, samples))
}

func TestQuantileRange(t *testing.T) {
	samples := uniformSamples(101, 0, 1, 1.0)

	r := QuantileRange(samples, 0.25, 0.75)
	assert.InDelta(t, 25, r.Low, 0.001)
	assert.InDelta(t, 75, r.High, 0.001)

	full := QuantileRange(samples, 0, 1)
	assert.InDelta(t, 0, full.Low, 0.001)
	assert.InDelta(t, 100, full.High, 0.001)

	assert.Equal(t, 0.0, QuantileRange(nil, 0.25, 0.75).Low)
}

func TestEvaluateBoundaries(t *testing.T) {
	samples := uniformSamples(16, 0, 1, 2.0)

	covering := []types.OptimalBoundary{{RangeLow: 0, RangeHigh: 15}}
	score := EvaluateBoundaries(covering, samples, 1.5)
	assert.InDelta(t, 4.0, score, 0.001) // hit rate 1 * sqrt(16)

	missing := []types.OptimalBoundary{{RangeLow: 100, RangeHigh: 110}}
	assert.Equal(t, 0.0, EvaluateBoundaries(missing, samples, 1.5))

	assert.Equal(t, 0.0, EvaluateBoundaries(nil, samples, 1.5))
}
