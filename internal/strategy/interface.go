package strategy

import (
	"math"

	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// BoundaryStrategy defines the interface for boundary search strategies.
// Strategies are pure: Optimize never mutates its input samples and every
// call returns freshly constructed boundaries.
type BoundaryStrategy interface {
	// Name returns the name of the strategy, used as the key in combined
	// optimization results.
	Name() string

	// IsEnabled reports whether the strategy is turned on by configuration.
	IsEnabled() bool

	// Validate checks the samples against the strategy's minimum data
	// requirements without running the search.
	Validate(samples []types.PriceMovement) ValidationReport

	// Optimize runs the boundary search on training samples.
	Optimize(samples []types.PriceMovement) ([]types.OptimalBoundary, error)

	// Evaluate scores a set of boundaries against held-out samples.
	Evaluate(boundaries []types.OptimalBoundary, samples []types.PriceMovement) float64
}

// ValidationReport collects the problems a strategy found with its input.
// Errors abort the strategy; warnings do not.
type ValidationReport struct {
	Errors   []string
	Warnings []string
}

// IsValid reports whether the strategy can run on the validated input.
func (r ValidationReport) IsValid() bool {
	return len(r.Errors) == 0
}

// EvaluateBoundaries is the shared held-out scorer used by every strategy:
// per-boundary hit rate weighted by sqrt(sample count), averaged across
// boundaries. Boundaries that capture no validation samples contribute 0.
func EvaluateBoundaries(boundaries []types.OptimalBoundary, samples []types.PriceMovement, targetMovement float64) float64 {
	if len(boundaries) == 0 || len(samples) == 0 {
		return 0
	}
	total := 0.0
	for _, b := range boundaries {
		inside := b.SamplesWithin(samples)
		if len(inside) == 0 {
			continue
		}
		hits := 0
		for _, s := range inside {
			if s.AbsMovement() >= targetMovement {
				hits++
			}
		}
		hitRate := float64(hits) / float64(len(inside))
		total += hitRate * math.Sqrt(float64(len(inside)))
	}
	return total / float64(len(boundaries))
}

// baseStrategy carries the shared evaluator and enabled flag so individual
// strategies only implement their own search.
type baseStrategy struct {
	enabled        bool
	targetMovement float64
}

func (b baseStrategy) IsEnabled() bool {
	return b.enabled
}

func (b baseStrategy) Evaluate(boundaries []types.OptimalBoundary, samples []types.PriceMovement) float64 {
	return EvaluateBoundaries(boundaries, samples, b.targetMovement)
}
