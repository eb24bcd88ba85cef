package strategy

import (
	"fmt"
	"math"

	"github.com/quantsignal/boundary-optimizer/internal/errors"
	"github.com/quantsignal/boundary-optimizer/internal/numutil"
	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// gradientStepSize is the unit step each neighbor moves a boundary edge by.
const gradientStepSize = 1.0

// gradientMinSamples is the floor below which hill climbing has nothing to
// measure against.
const gradientMinSamples = 10

// GradientStrategy hill-climbs a value range towards the configured
// objective. Local search only: it tests the six unit-step neighbors each
// iteration and moves to the best improving one.
type GradientStrategy struct {
	baseStrategy
	objective        types.OptimizationObjective
	maxIterations    int
	convergence      float64
	stagnationWindow int
}

// NewGradientStrategy creates a gradient search strategy.
func NewGradientStrategy(objective types.OptimizationObjective, cfg config.Config) *GradientStrategy {
	return &GradientStrategy{
		baseStrategy:     baseStrategy{enabled: true, targetMovement: cfg.TargetMovement},
		objective:        objective,
		maxIterations:    cfg.MaxIterations,
		convergence:      cfg.Convergence,
		stagnationWindow: cfg.StagnationWindow,
	}
}

// Name returns the name of the strategy.
func (s *GradientStrategy) Name() string {
	return "GradientSearch"
}

// Validate checks the minimum data requirement of the search.
func (s *GradientStrategy) Validate(samples []types.PriceMovement) ValidationReport {
	var report ValidationReport
	if len(samples) < gradientMinSamples {
		report.Errors = append(report.Errors,
			fmt.Sprintf("gradient search needs at least %d samples, got %d", gradientMinSamples, len(samples)))
	}
	if s.objective.InitialRange.High <= s.objective.InitialRange.Low {
		report.Errors = append(report.Errors,
			fmt.Sprintf("initial range [%.2f, %.2f] is empty", s.objective.InitialRange.Low, s.objective.InitialRange.High))
	}
	return report
}

// Optimize runs the search and wraps the resulting range as a boundary.
func (s *GradientStrategy) Optimize(samples []types.PriceMovement) ([]types.OptimalBoundary, error) {
	result, err := s.Search(samples)
	if err != nil {
		return nil, err
	}
	b := types.OptimalBoundary{
		RangeLow:  result.Range.Low,
		RangeHigh: result.Range.High,
		Method:    s.Name(),
	}
	inside := b.SamplesWithin(samples)
	if len(inside) > 0 {
		hits, ups := 0, 0
		sumAbs := 0.0
		for _, m := range inside {
			if m.AbsMovement() >= s.targetMovement {
				hits++
			}
			if m.Movement > 0 {
				ups++
			}
			sumAbs += m.AbsMovement()
		}
		n := float64(len(inside))
		b.SampleCount = len(inside)
		b.HitRate = float64(hits) / n
		b.ProbabilityUp = float64(ups) / n
		b.ExpectedATRMove = sumAbs / n
		b.Confidence = b.HitRate * math.Sqrt(n) / 3
	}
	return []types.OptimalBoundary{b}, nil
}

// Search is the typed entry point returning the full search diagnostics.
func (s *GradientStrategy) Search(samples []types.PriceMovement) (types.OptimalRange, error) {
	return optimizeWithGradient(samples, s.objective, s.maxIterations, s.convergence, s.stagnationWindow)
}

// OptimizeWithGradientSearch hill-climbs from objective.InitialRange using
// the default iteration and convergence budgets.
func OptimizeWithGradientSearch(samples []types.PriceMovement, objective types.OptimizationObjective) (types.OptimalRange, error) {
	return optimizeWithGradient(samples, objective,
		config.DefaultMaxIterations, config.DefaultConvergence, config.DefaultStagnationWindow)
}

func optimizeWithGradient(samples []types.PriceMovement, objective types.OptimizationObjective, maxIterations int, convergence float64, stagnationWindow int) (types.OptimalRange, error) {
	const component = "GradientSearch"
	const operation = "Search"

	if len(samples) < gradientMinSamples {
		return types.OptimalRange{}, errors.NewInsufficientDataError(component, operation, len(samples), gradientMinSamples)
	}
	if objective.InitialRange.High <= objective.InitialRange.Low {
		return types.OptimalRange{}, errors.NewInvalidArgumentError(component, operation,
			fmt.Sprintf("initial range [%.2f, %.2f] is empty", objective.InitialRange.Low, objective.InitialRange.High))
	}

	current := objective.InitialRange
	currentValue := evaluateObjective(samples, current, objective)
	if !numutil.IsFinite(currentValue) {
		return types.OptimalRange{}, numericalFailure(component, operation, currentValue)
	}

	var history []float64
	stagnant := 0
	improved := false

	for iterations := 1; iterations <= maxIterations; iterations++ {
		bestNeighbor := current
		bestValue := currentValue

		for _, neighbor := range neighbors(current) {
			if neighbor.High <= neighbor.Low {
				continue
			}
			value := evaluateObjective(samples, neighbor, objective)
			if !numutil.IsFinite(value) {
				return types.OptimalRange{}, numericalFailure(component, operation, value)
			}
			if value > bestValue {
				bestValue = value
				bestNeighbor = neighbor
			}
		}

		improvement := bestValue - currentValue
		history = append(history, improvement)

		if improvement > 0 {
			improved = true
			stagnant = 0
			current = bestNeighbor
			currentValue = bestValue
		} else {
			stagnant++
		}

		// Once the climb has made progress, falling below the convergence
		// threshold means a local optimum was reached. Without any progress
		// so far the search is stuck in a flat region and only the
		// stagnation budget applies.
		if improvement < convergence {
			if improved {
				return types.OptimalRange{
					Range:          current,
					ObjectiveValue: currentValue,
					Iterations:     iterations,
					Converged:      true,
					FinalStepSize:  gradientStepSize,
					Threshold:      convergence,
				}, nil
			}
			if stagnant >= stagnationWindow {
				return types.OptimalRange{}, errors.NewNonConvergenceError(component, operation,
					iterations, currentValue, history, true)
			}
		}
	}

	return types.OptimalRange{}, errors.NewNonConvergenceError(component, operation,
		maxIterations, currentValue, history, false)
}

// neighbors returns the six unit-step moves: each edge shrunk or expanded
// independently, plus the symmetric expand and shrink.
func neighbors(r types.ValueRange) [6]types.ValueRange {
	step := gradientStepSize
	return [6]types.ValueRange{
		{Low: r.Low + step, High: r.High},        // shrink from below
		{Low: r.Low - step, High: r.High},        // expand below
		{Low: r.Low, High: r.High - step},        // shrink from above
		{Low: r.Low, High: r.High + step},        // expand above
		{Low: r.Low - step, High: r.High + step}, // symmetric expand
		{Low: r.Low + step, High: r.High - step}, // symmetric shrink
	}
}

// EvaluateRange scores a range against the objective's target metric.
// Ranges that capture no samples score 0.
func EvaluateRange(samples []types.PriceMovement, r types.ValueRange, objective types.OptimizationObjective) float64 {
	return evaluateObjective(samples, r, objective)
}

// evaluateObjective scores a range against the objective's target metric.
// Ranges that capture no samples score 0.
func evaluateObjective(samples []types.PriceMovement, r types.ValueRange, objective types.OptimizationObjective) float64 {
	var inside []types.PriceMovement
	for _, s := range samples {
		if r.Contains(s.Value) {
			inside = append(inside, s)
		}
	}
	if len(inside) == 0 {
		return 0
	}
	n := float64(len(inside))

	switch objective.Target {
	case types.TargetHighestWinRate:
		wins := 0
		for _, s := range inside {
			if s.Movement > 0 {
				wins++
			}
		}
		return float64(wins) / n

	case types.TargetLargeMoveProbability:
		hits := 0
		for _, s := range inside {
			if s.AbsMovement() >= objective.MinMovement {
				hits++
			}
		}
		return float64(hits) / n

	case types.TargetConsistentResults:
		moves := make([]float64, len(inside))
		for i, s := range inside {
			moves[i] = s.AbsMovement()
		}
		return 1 / (1 + numutil.StdDev(moves))

	default: // TargetAverageMove
		sum := 0.0
		for _, s := range inside {
			sum += s.AbsMovement()
		}
		return sum / n
	}
}

func numericalFailure(component, operation string, value float64) error {
	reason := errors.NumericalReasonOther
	switch {
	case math.IsNaN(value):
		reason = errors.NumericalReasonNaN
	case math.IsInf(value, 0):
		reason = errors.NumericalReasonInfinity
	}
	return errors.NewNumericalError(component, operation, reason, value)
}
