package validation

import (
	"math"

	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// ValidateBoundaries tests fixed boundaries against independent
// out-of-sample data with the default stability and degradation thresholds.
func ValidateBoundaries(boundaries []types.OptimalBoundary, testSamples []types.PriceMovement) *ValidationResult {
	return NewBoundaryValidator(config.DefaultStabilityLimit, config.DefaultDegradationLimit).
		Validate(boundaries, testSamples)
}

// BoundaryValidator evaluates a fixed boundary set against out-of-sample
// data and scores its stability.
type BoundaryValidator struct {
	stabilityLimit   float64
	degradationLimit float64
}

// NewBoundaryValidator creates a boundary validator with the given
// per-boundary stability threshold and global degradation threshold.
func NewBoundaryValidator(stabilityLimit, degradationLimit float64) *BoundaryValidator {
	return &BoundaryValidator{stabilityLimit: stabilityLimit, degradationLimit: degradationLimit}
}

// Validate recomputes each boundary's hit rate on the test samples against
// the target movement the boundary itself recorded (its ExpectedATRMove):
// validation tests the boundary's own claim, not a new target. Empty
// boundary or test input short-circuits to a fully degraded result.
func (v *BoundaryValidator) Validate(boundaries []types.OptimalBoundary, testSamples []types.PriceMovement) *ValidationResult {
	if len(boundaries) == 0 || len(testSamples) == 0 {
		return &ValidationResult{
			PerformanceDegradation: 1,
			Overfitting:            true,
		}
	}

	result := &ValidationResult{
		BoundaryDetails: make([]BoundaryStability, 0, len(boundaries)),
	}

	inWeighted, outWeighted := 0.0, 0.0
	inWeightSum, outWeightSum := 0.0, 0.0

	for _, b := range boundaries {
		inside := b.SamplesWithin(testSamples)
		outHitRate := 0.0
		if len(inside) > 0 {
			hits := 0
			for _, s := range inside {
				if s.AbsMovement() >= b.ExpectedATRMove {
					hits++
				}
			}
			outHitRate = float64(hits) / float64(len(inside))
		}

		detail := BoundaryStability{
			Boundary:           b,
			InSampleHitRate:    b.HitRate,
			OutOfSampleHitRate: outHitRate,
		}
		if b.HitRate > 0 {
			detail.Degradation = (b.HitRate - outHitRate) / b.HitRate
			detail.Stable = math.Abs(b.HitRate-outHitRate)/b.HitRate < v.stabilityLimit
		} else {
			// A boundary that claimed nothing cannot degrade.
			detail.Stable = true
		}
		result.BoundaryDetails = append(result.BoundaryDetails, detail)

		inWeight := math.Sqrt(float64(b.SampleCount))
		outWeight := math.Sqrt(float64(len(inside)))
		inWeighted += b.HitRate * inWeight
		outWeighted += outHitRate * outWeight
		inWeightSum += inWeight
		outWeightSum += outWeight
	}

	if inWeightSum > 0 {
		result.InSamplePerformance = inWeighted / inWeightSum
	}
	if outWeightSum > 0 {
		result.OutOfSamplePerformance = outWeighted / outWeightSum
	}
	if result.InSamplePerformance > 0 {
		result.PerformanceDegradation = (result.InSamplePerformance - result.OutOfSamplePerformance) / result.InSamplePerformance
	}
	result.Overfitting = result.PerformanceDegradation > v.degradationLimit
	return result
}
