package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsignal/boundary-optimizer/internal/errors"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

func testObjectives() []types.OptimizationObjective {
	return []types.OptimizationObjective{
		{Target: types.TargetAverageMove, Weight: 1},
		{Target: types.TargetHighestWinRate, Weight: 1},
	}
}

func TestParetoOptimizer_NoObjectives(t *testing.T) {
	_, err := NewParetoOptimizer(testConfig()).Optimize(cyclicSamples(40), nil)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestParetoOptimizer_EmptySamples(t *testing.T) {
	solutions, err := NewParetoOptimizer(testConfig()).Optimize(nil, testObjectives())
	require.NoError(t, err)
	assert.Empty(t, solutions)
}

func TestParetoOptimizer_FrontProperties(t *testing.T) {
	solutions, err := NewParetoOptimizer(testConfig()).Optimize(cyclicSamples(80), testObjectives())
	require.NoError(t, err)
	require.NotEmpty(t, solutions)
	assert.LessOrEqual(t, len(solutions), 10)

	for i, s := range solutions {
		assert.False(t, s.Dominated)
		assert.GreaterOrEqual(t, s.Rank, 1)
		assert.Len(t, s.Scores, 2)
		assert.Len(t, s.RawValues, 2)
		if i > 0 {
			assert.GreaterOrEqual(t, solutions[i-1].TotalScore(), s.TotalScore())
		}
	}

	// No member of the returned front may dominate another.
	for i := range solutions {
		for j := range solutions {
			if i != j {
				assert.False(t, solutions[i].Dominates(solutions[j]))
			}
		}
	}
}

func TestMarkDominance(t *testing.T) {
	solutions := []types.ParetoSolution{
		{Scores: []float64{1, 1}},
		{Scores: []float64{2, 2}},
		{Scores: []float64{2, 1}},
		{Scores: []float64{1, 3}},
	}

	annotated := markDominance(solutions)

	assert.True(t, annotated[0].Dominated)  // beaten by (2,2)
	assert.False(t, annotated[1].Dominated) // on the front
	assert.True(t, annotated[2].Dominated)  // beaten by (2,2)
	assert.False(t, annotated[3].Dominated) // trades off against (2,2)

	assert.Equal(t, 1, annotated[1].Rank)
	assert.Equal(t, 2, annotated[3].Rank)

	// Input must be left untouched.
	for _, s := range solutions {
		assert.False(t, s.Dominated)
		assert.Equal(t, 0, s.Rank)
	}
}
