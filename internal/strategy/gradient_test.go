package strategy

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsignal/boundary-optimizer/internal/errors"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// rampSamples builds samples whose absolute movement grows with the value,
// giving the climb a single improving direction.
func rampSamples(n int) []types.PriceMovement {
	values := make([]float64, n)
	movements := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = float64(i)
		movements[i] = float64(i) / 10
	}
	return makeSamples(values, movements)
}

func TestOptimizeWithGradientSearch_Converges(t *testing.T) {
	samples := rampSamples(50)
	objective := types.OptimizationObjective{
		Target:       types.TargetAverageMove,
		InitialRange: types.ValueRange{Low: 10, High: 15},
	}

	result, err := OptimizeWithGradientSearch(samples, objective)
	require.NoError(t, err)

	assert.True(t, result.Converged)
	assert.Greater(t, result.Iterations, 0)
	assert.True(t, result.Range.Contains(49), "climb should end at the top of the ramp, got [%.1f, %.1f]", result.Range.Low, result.Range.High)
	assert.InDelta(t, 4.9, result.ObjectiveValue, 0.001)
}

func TestOptimizeWithGradientSearch_InsufficientData(t *testing.T) {
	samples := rampSamples(5)
	objective := types.OptimizationObjective{
		InitialRange: types.ValueRange{Low: 0, High: 4},
	}

	_, err := OptimizeWithGradientSearch(samples, objective)
	assert.True(t, errors.IsInsufficientData(err))
}

func TestOptimizeWithGradientSearch_EmptyInitialRange(t *testing.T) {
	samples := rampSamples(20)
	objective := types.OptimizationObjective{
		InitialRange: types.ValueRange{Low: 10, High: 10},
	}

	_, err := OptimizeWithGradientSearch(samples, objective)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestOptimizeWithGradientSearch_StagnatesOnFlatObjective(t *testing.T) {
	// Identical movement everywhere makes every populated range score the
	// same, so the climb never improves and must stop with a non-convergence
	// error instead of spinning through the whole iteration budget.
	samples := uniformSamples(20, 0, 1, 2.0)
	objective := types.OptimizationObjective{
		Target:       types.TargetAverageMove,
		InitialRange: types.ValueRange{Low: 5, High: 10},
	}

	_, err := OptimizeWithGradientSearch(samples, objective)
	require.Error(t, err)
	assert.True(t, errors.IsNonConvergence(err))

	var nce *errors.NonConvergenceError
	require.True(t, stderrors.As(err, &nce))
	assert.True(t, nce.Stagnated)
	assert.NotEmpty(t, nce.ImprovementHistory)
}

func TestEvaluateRange_Objectives(t *testing.T) {
	samples := makeSamples(
		[]float64{10, 11, 12, 13},
		[]float64{2.0, -1.0, 0.5, -3.0},
	)
	r := types.ValueRange{Low: 10, High: 13}

	winRate := EvaluateRange(samples, r, types.OptimizationObjective{Target: types.TargetHighestWinRate})
	assert.InDelta(t, 0.5, winRate, 0.001)

	largeMove := EvaluateRange(samples, r, types.OptimizationObjective{
		Target:      types.TargetLargeMoveProbability,
		MinMovement: 1.5,
	})
	assert.InDelta(t, 0.5, largeMove, 0.001)

	avgMove := EvaluateRange(samples, r, types.OptimizationObjective{Target: types.TargetAverageMove})
	assert.InDelta(t, 1.625, avgMove, 0.001)
}

func TestEvaluateRange_EmptyRange(t *testing.T) {
	samples := rampSamples(10)
	score := EvaluateRange(samples, types.ValueRange{Low: 100, High: 110}, types.OptimizationObjective{})
	assert.Equal(t, 0.0, score)
}

func TestGradientStrategy_Optimize(t *testing.T) {
	samples := rampSamples(50)
	strat := NewGradientStrategy(types.OptimizationObjective{
		Target:       types.TargetAverageMove,
		InitialRange: types.ValueRange{Low: 10, High: 15},
	}, testConfig())

	boundaries, err := strat.Optimize(samples)
	require.NoError(t, err)
	require.Len(t, boundaries, 1)
	assert.Equal(t, "GradientSearch", boundaries[0].Method)
	assert.Greater(t, boundaries[0].SampleCount, 0)
}
