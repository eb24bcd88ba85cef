package strategy

import (
	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// NewEnabledStrategies builds the strategies the configuration turns on, in
// a stable order. The gradient strategy is seeded from the samples' value
// quantiles so its initial range covers the bulk of the data.
func NewEnabledStrategies(cfg config.Config, samples []types.PriceMovement) []BoundaryStrategy {
	var strategies []BoundaryStrategy
	if cfg.EnableDecisionTree {
		strategies = append(strategies, NewDecisionTreeStrategy(cfg.TargetMovement, cfg.MaxDepth))
	}
	if cfg.EnableClustering {
		if cfg.Seed != 0 {
			strategies = append(strategies, NewClusteringStrategyWithSeed(cfg.TargetMovement, cfg.ClusterCount, cfg.Seed))
		} else {
			strategies = append(strategies, NewClusteringStrategy(cfg.TargetMovement, cfg.ClusterCount))
		}
	}
	if cfg.EnableGradient {
		objective := types.OptimizationObjective{
			Target:       types.TargetLargeMoveProbability,
			MinMovement:  cfg.TargetMovement,
			InitialRange: QuantileRange(samples, 0.25, 0.75),
			Weight:       1,
		}
		strategies = append(strategies, NewGradientStrategy(objective, cfg))
	}
	return strategies
}

// QuantileRange returns the value range between the given sample quantiles,
// used to seed searches from the bulk of the data.
func QuantileRange(samples []types.PriceMovement, lowQ, highQ float64) types.ValueRange {
	if len(samples) == 0 {
		return types.ValueRange{}
	}
	sorted := types.SortSamplesByValue(samples)
	lowIdx := int(lowQ * float64(len(sorted)-1))
	highIdx := int(highQ * float64(len(sorted)-1))
	return types.ValueRange{
		Low:  sorted[lowIdx].Value,
		High: sorted[highIdx].Value,
	}
}
