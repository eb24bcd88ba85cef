package optimizer

import (
	"github.com/quantsignal/boundary-optimizer/internal/strategy"
	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// CombinedMethod adapts the combined optimizer to the cross-validation
// Method contract: each fold trains a full multi-strategy run and keeps the
// winner's boundaries.
type CombinedMethod struct{}

// Train runs a combined optimization on the fold's training slice and
// returns the best method's boundaries.
func (CombinedMethod) Train(train []types.PriceMovement, cfg config.Config) ([]types.OptimalBoundary, error) {
	result, err := RunCombinedOptimization(train, cfg)
	if err != nil {
		return nil, err
	}
	return result.OptimalBoundaries, nil
}

// Evaluate scores boundaries with the shared held-out evaluator.
func (CombinedMethod) Evaluate(boundaries []types.OptimalBoundary, test []types.PriceMovement, cfg config.Config) float64 {
	return strategy.EvaluateBoundaries(boundaries, test, cfg.TargetMovement)
}

// StrategyMethod adapts a single boundary strategy to the cross-validation
// Method contract, for validating one algorithm in isolation.
type StrategyMethod struct {
	Strategy strategy.BoundaryStrategy
}

// Train runs the wrapped strategy on the fold's training slice.
func (m StrategyMethod) Train(train []types.PriceMovement, cfg config.Config) ([]types.OptimalBoundary, error) {
	return m.Strategy.Optimize(train)
}

// Evaluate scores boundaries with the wrapped strategy's evaluator.
func (m StrategyMethod) Evaluate(boundaries []types.OptimalBoundary, test []types.PriceMovement, cfg config.Config) float64 {
	return m.Strategy.Evaluate(boundaries, test)
}
