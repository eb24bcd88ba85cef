package strategy

import (
	"fmt"
	"math"
	"sort"

	"github.com/quantsignal/boundary-optimizer/internal/errors"
	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

const (
	// slidingWindowSteps divides the observed value range into the coarse
	// grid the scan walks over.
	slidingWindowSteps = 15

	// slidingWindowMinSamples is the minimum in-window sample count for a
	// window to become a candidate boundary.
	slidingWindowMinSamples = 3

	// slidingWindowMaxWidth caps window width at this many grid steps.
	slidingWindowMaxWidth = 6
)

// SlidingWindowStrategy scans a coarse grid of value windows and keeps the
// highest-confidence ones. It is an exhaustive grid search rather than a
// continuous optimization, which keeps it cheap and robust on sparse data.
type SlidingWindowStrategy struct {
	baseStrategy
	maxRanges int
}

// NewSlidingWindowStrategy creates a sliding-window strategy.
func NewSlidingWindowStrategy(targetMovement float64, maxRanges int) *SlidingWindowStrategy {
	return &SlidingWindowStrategy{
		baseStrategy: baseStrategy{enabled: true, targetMovement: targetMovement},
		maxRanges:    maxRanges,
	}
}

// Name returns the name of the strategy.
func (s *SlidingWindowStrategy) Name() string {
	return "SlidingWindow"
}

// Validate checks the minimum data requirements of the scan.
func (s *SlidingWindowStrategy) Validate(samples []types.PriceMovement) ValidationReport {
	var report ValidationReport
	if len(samples) < slidingWindowMinSamples {
		report.Errors = append(report.Errors,
			fmt.Sprintf("sliding window needs at least %d samples, got %d", slidingWindowMinSamples, len(samples)))
	}
	if len(samples) > 0 && len(samples) < 2*slidingWindowSteps {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("only %d samples across %d grid steps; windows will be sparse", len(samples), slidingWindowSteps))
	}
	return report
}

// Optimize runs the grid scan with the strategy's configured parameters.
func (s *SlidingWindowStrategy) Optimize(samples []types.PriceMovement) ([]types.OptimalBoundary, error) {
	return FindOptimalBoundaries(samples, s.targetMovement, s.maxRanges)
}

// FindOptimalBoundaries scans all coarse-grid windows over the samples'
// value range and returns the top maxRanges boundaries ranked by
// confidence. Empty input yields an empty result.
func FindOptimalBoundaries(samples []types.PriceMovement, targetMovement float64, maxRanges int) ([]types.OptimalBoundary, error) {
	if maxRanges <= 0 || maxRanges > config.MaxRangesCeiling {
		return nil, errors.NewInvalidArgumentError("SlidingWindow", "FindOptimalBoundaries",
			fmt.Sprintf("max ranges must be between 1 and %d, got %d", config.MaxRangesCeiling, maxRanges))
	}
	if len(samples) == 0 {
		return []types.OptimalBoundary{}, nil
	}

	sorted := types.SortSamplesByValue(samples)
	minVal := sorted[0].Value
	maxVal := sorted[len(sorted)-1].Value

	step := (maxVal - minVal) / slidingWindowSteps
	if step < 1 {
		step = 1
	}

	var candidates []types.OptimalBoundary
	for low := minVal; low <= maxVal; low += step {
		for mult := 2; mult <= slidingWindowMaxWidth; mult++ {
			high := low + float64(mult)*step
			candidate, ok := scanWindow(sorted, low, high, targetMovement)
			if ok {
				candidates = append(candidates, candidate)
			}
			if high > maxVal {
				break
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	if len(candidates) > maxRanges {
		candidates = candidates[:maxRanges]
	}
	return candidates, nil
}

// scanWindow computes the candidate boundary for one [low, high] window.
// Windows with fewer than slidingWindowMinSamples samples are rejected.
func scanWindow(sorted []types.PriceMovement, low, high, targetMovement float64) (types.OptimalBoundary, bool) {
	var inside []types.PriceMovement
	for _, s := range sorted {
		if s.Value > high {
			break
		}
		if s.Value >= low {
			inside = append(inside, s)
		}
	}
	if len(inside) < slidingWindowMinSamples {
		return types.OptimalBoundary{}, false
	}

	hits, ups := 0, 0
	sumAbs := 0.0
	for _, s := range inside {
		if s.AbsMovement() >= targetMovement {
			hits++
		}
		if s.Movement > 0 {
			ups++
		}
		sumAbs += s.AbsMovement()
	}
	n := float64(len(inside))
	hitRate := float64(hits) / n

	return types.OptimalBoundary{
		RangeLow:        low,
		RangeHigh:       high,
		Confidence:      hitRate * math.Sqrt(n) / 3,
		ExpectedATRMove: sumAbs / n,
		SampleCount:     len(inside),
		HitRate:         hitRate,
		ProbabilityUp:   float64(ups) / n,
		Method:          "SlidingWindow",
	}, true
}
