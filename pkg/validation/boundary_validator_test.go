package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

func boundaryUnderTest(hitRate float64) types.OptimalBoundary {
	return types.OptimalBoundary{
		RangeLow:        0,
		RangeHigh:       10,
		HitRate:         hitRate,
		ExpectedATRMove: 2.0,
		SampleCount:     10,
		Method:          "SlidingWindow",
	}
}

// movementSamples places one sample per movement value inside [0, 10].
func movementSamples(movements []float64) []types.PriceMovement {
	samples := testSamples(len(movements), 0)
	for i := range samples {
		samples[i].Value = float64(i) * 10 / float64(len(movements))
		samples[i].Movement = movements[i]
	}
	return samples
}

func TestValidateBoundaries_MatchingDistribution(t *testing.T) {
	// Out-of-sample data reproduces the claimed 50% hit rate exactly, so
	// nothing degrades and every boundary is stable.
	boundary := boundaryUnderTest(0.5)
	test := movementSamples([]float64{2.5, 1.0, 3.0, 0.5, 2.1, 1.2, 2.8, 0.9, 2.4, 1.4})

	result := ValidateBoundaries([]types.OptimalBoundary{boundary}, test)

	require.Len(t, result.BoundaryDetails, 1)
	detail := result.BoundaryDetails[0]
	assert.InDelta(t, 0.5, detail.OutOfSampleHitRate, 0.001)
	assert.InDelta(t, 0.0, detail.Degradation, 0.001)
	assert.True(t, detail.Stable)

	assert.InDelta(t, 0.0, result.PerformanceDegradation, 0.001)
	assert.False(t, result.Overfitting)
}

func TestValidateBoundaries_DetectsOverfitting(t *testing.T) {
	// The boundary claims 90% but out-of-sample only 20% of moves reach the
	// expected size: degradation far beyond the 0.5 limit.
	boundary := boundaryUnderTest(0.9)
	test := movementSamples([]float64{2.5, 1.0, 0.3, 0.5, 0.1, 1.2, 2.8, 0.9, 0.4, 1.4})

	result := ValidateBoundaries([]types.OptimalBoundary{boundary}, test)

	detail := result.BoundaryDetails[0]
	assert.InDelta(t, 0.2, detail.OutOfSampleHitRate, 0.001)
	assert.False(t, detail.Stable)
	assert.InDelta(t, (0.9-0.2)/0.9, detail.Degradation, 0.001)
	assert.True(t, result.Overfitting)
}

func TestValidateBoundaries_EmptyInputs(t *testing.T) {
	result := ValidateBoundaries(nil, testSamples(10, 2.0))
	assert.Equal(t, 1.0, result.PerformanceDegradation)
	assert.True(t, result.Overfitting)

	result = ValidateBoundaries([]types.OptimalBoundary{boundaryUnderTest(0.5)}, nil)
	assert.Equal(t, 1.0, result.PerformanceDegradation)
	assert.True(t, result.Overfitting)
}

func TestValidateBoundaries_ZeroClaimIsStable(t *testing.T) {
	// A boundary that never claimed hits cannot degrade.
	boundary := boundaryUnderTest(0)
	test := movementSamples([]float64{0.5, 0.4, 0.3, 0.2, 0.1})

	result := ValidateBoundaries([]types.OptimalBoundary{boundary}, test)

	require.Len(t, result.BoundaryDetails, 1)
	assert.True(t, result.BoundaryDetails[0].Stable)
	assert.False(t, result.Overfitting)
}

func TestValidateBoundaries_SamplesOutsideBoundary(t *testing.T) {
	boundary := boundaryUnderTest(0.5)
	outside := testSamples(5, 3.0)
	for i := range outside {
		outside[i].Value = 100 + float64(i)
	}

	result := ValidateBoundaries([]types.OptimalBoundary{boundary}, outside)

	detail := result.BoundaryDetails[0]
	assert.Equal(t, 0.0, detail.OutOfSampleHitRate)
	assert.InDelta(t, 1.0, detail.Degradation, 0.001)
	assert.True(t, result.Overfitting)
}

func TestNewBoundaryValidator_CustomLimits(t *testing.T) {
	// A loose degradation limit tolerates the same gap the defaults flag.
	boundary := boundaryUnderTest(0.8)
	test := movementSamples([]float64{2.5, 1.0, 0.3, 0.5, 2.1, 1.2, 2.8, 0.9, 0.4, 1.4})

	strict := NewBoundaryValidator(0.1, 0.2).Validate([]types.OptimalBoundary{boundary}, test)
	loose := NewBoundaryValidator(0.9, 0.9).Validate([]types.OptimalBoundary{boundary}, test)

	assert.True(t, strict.Overfitting)
	assert.False(t, loose.Overfitting)
	assert.False(t, strict.BoundaryDetails[0].Stable)
	assert.True(t, loose.BoundaryDetails[0].Stable)
}
