package optimizer

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/quantsignal/boundary-optimizer/internal/errors"
	"github.com/quantsignal/boundary-optimizer/internal/strategy"
	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

const (
	// paretoMaxSolutions caps the returned front.
	paretoMaxSolutions = 10

	// paretoWindowTopN keeps this many boundaries per sliding-window pass.
	paretoWindowTopN = 3
)

// paretoWindowTargets are the sliding-window target-movement thresholds used
// to diversify the candidate pool.
var paretoWindowTargets = []float64{1.0, 1.5, 2.0}

// ParetoOptimizer generates a diverse candidate pool from several sources
// and keeps the non-dominated solutions across all objectives.
type ParetoOptimizer struct {
	cfg config.Config
	log zerolog.Logger
}

// NewParetoOptimizer creates a multi-objective optimizer.
func NewParetoOptimizer(cfg config.Config) *ParetoOptimizer {
	return &ParetoOptimizer{cfg: cfg, log: zerolog.Nop()}
}

// WithLogger attaches a structured logger.
func (p *ParetoOptimizer) WithLogger(log zerolog.Logger) *ParetoOptimizer {
	p.log = log
	return p
}

// OptimizeForMultipleObjectives runs the Pareto search with the default
// configuration.
func OptimizeForMultipleObjectives(samples []types.PriceMovement, objectives []types.OptimizationObjective) ([]types.ParetoSolution, error) {
	return NewParetoOptimizer(config.DefaultConfig()).Optimize(samples, objectives)
}

// Optimize builds the candidate pool, scores every candidate against every
// objective, filters to the Pareto front and returns the top solutions by
// total weighted score.
func (p *ParetoOptimizer) Optimize(samples []types.PriceMovement, objectives []types.OptimizationObjective) ([]types.ParetoSolution, error) {
	if len(objectives) == 0 {
		return nil, errors.NewInvalidArgumentError("ParetoOptimizer", "Optimize", "at least one objective required")
	}
	if len(samples) == 0 {
		return []types.ParetoSolution{}, nil
	}

	candidates := p.generateCandidates(samples, objectives)
	if len(candidates) == 0 {
		return []types.ParetoSolution{}, nil
	}

	solutions := make([]types.ParetoSolution, 0, len(candidates))
	for _, candidate := range candidates {
		solutions = append(solutions, scoreCandidate(candidate, samples, objectives))
	}

	front := markDominance(solutions)

	var result []types.ParetoSolution
	for _, s := range front {
		if !s.Dominated {
			result = append(result, s)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalScore() > result[j].TotalScore()
	})
	if len(result) > paretoMaxSolutions {
		result = result[:paretoMaxSolutions]
	}

	p.log.Info().
		Int("candidates", len(candidates)).
		Int("front", len(result)).
		Msg("pareto search done")
	return result, nil
}

// generateCandidates pools boundaries from gradient searches, sliding-window
// scans and static quantile ranges. A failing source is skipped; the others
// still contribute.
func (p *ParetoOptimizer) generateCandidates(samples []types.PriceMovement, objectives []types.OptimizationObjective) []types.OptimalBoundary {
	var candidates []types.OptimalBoundary

	// Gradient search once per objective, seeded wide.
	wide := strategy.QuantileRange(samples, 0.1, 0.9)
	for _, objective := range objectives {
		seeded := objective
		seeded.InitialRange = wide
		grad := strategy.NewGradientStrategy(seeded, p.cfg)
		boundaries, err := grad.Optimize(samples)
		if err != nil {
			p.log.Debug().Err(err).Str("objective", objective.Target.String()).Msg("gradient source skipped")
			continue
		}
		candidates = append(candidates, boundaries...)
	}

	// Sliding window at several target thresholds.
	for _, target := range paretoWindowTargets {
		boundaries, err := strategy.FindOptimalBoundaries(samples, target, paretoWindowTopN)
		if err != nil {
			p.log.Debug().Err(err).Float64("target", target).Msg("sliding window source skipped")
			continue
		}
		candidates = append(candidates, boundaries...)
	}

	// Static tertile and quartile ranges.
	candidates = append(candidates, staticRanges(samples)...)
	return candidates
}

// staticRanges derives candidate boundaries from the data's tertiles and
// quartiles.
func staticRanges(samples []types.PriceMovement) []types.OptimalBoundary {
	quantiles := [][2]float64{
		{0, 1.0 / 3}, {1.0 / 3, 2.0 / 3}, {2.0 / 3, 1}, // tertiles
		{0, 0.25}, {0.25, 0.5}, {0.5, 0.75}, {0.75, 1}, // quartiles
		{0.25, 0.75}, // interquartile
	}
	var boundaries []types.OptimalBoundary
	for _, q := range quantiles {
		r := strategy.QuantileRange(samples, q[0], q[1])
		if r.High <= r.Low {
			continue
		}
		boundaries = append(boundaries, types.OptimalBoundary{
			RangeLow:  r.Low,
			RangeHigh: r.High,
			Method:    "StaticRange",
		})
	}
	return boundaries
}

// scoreCandidate evaluates a boundary against every objective, producing the
// weighted score vector and the raw value map.
func scoreCandidate(candidate types.OptimalBoundary, samples []types.PriceMovement, objectives []types.OptimizationObjective) types.ParetoSolution {
	scores := make([]float64, len(objectives))
	raw := make(map[string]float64, len(objectives))
	for i, objective := range objectives {
		value := strategy.EvaluateRange(samples,
			types.ValueRange{Low: candidate.RangeLow, High: candidate.RangeHigh}, objective)
		raw[objective.Target.String()] = value
		weight := objective.Weight
		if weight == 0 {
			weight = 1
		}
		scores[i] = value * weight
	}
	return types.ParetoSolution{
		Boundary:  candidate,
		Scores:    scores,
		RawValues: raw,
	}
}

// markDominance produces a new slice annotated with dominance flags and a
// stable rank for non-dominated solutions. Input solutions are not mutated.
func markDominance(solutions []types.ParetoSolution) []types.ParetoSolution {
	annotated := make([]types.ParetoSolution, len(solutions))
	copy(annotated, solutions)

	for i := range annotated {
		for j := range annotated {
			if i == j {
				continue
			}
			if annotated[j].Dominates(annotated[i]) {
				annotated[i].Dominated = true
				break
			}
		}
	}

	rank := 1
	for i := range annotated {
		if !annotated[i].Dominated {
			annotated[i].Rank = rank
			rank++
		}
	}
	return annotated
}
