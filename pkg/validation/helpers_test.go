package validation

import (
	"fmt"
	"time"

	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

func testSamples(n int, movement float64) []types.PriceMovement {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := make([]types.PriceMovement, n)
	for i := 0; i < n; i++ {
		samples[i] = types.PriceMovement{
			Value:     float64(i),
			Movement:  movement,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return samples
}

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Seed = 42
	return cfg
}

// spanMethod trains a single boundary over the full training value range
// and scores slices by their hit rate, making every fold deterministic.
type spanMethod struct{}

func (spanMethod) Train(train []types.PriceMovement, cfg config.Config) ([]types.OptimalBoundary, error) {
	if len(train) == 0 {
		return nil, fmt.Errorf("empty training slice")
	}
	low, high := train[0].Value, train[0].Value
	hits := 0
	for _, s := range train {
		if s.Value < low {
			low = s.Value
		}
		if s.Value > high {
			high = s.Value
		}
		if s.AbsMovement() >= cfg.TargetMovement {
			hits++
		}
	}
	return []types.OptimalBoundary{{
		RangeLow:        low,
		RangeHigh:       high,
		HitRate:         float64(hits) / float64(len(train)),
		ExpectedATRMove: cfg.TargetMovement,
		SampleCount:     len(train),
		Method:          "Span",
	}}, nil
}

func (spanMethod) Evaluate(boundaries []types.OptimalBoundary, test []types.PriceMovement, cfg config.Config) float64 {
	if len(test) == 0 {
		return 0
	}
	hits := 0
	for _, s := range test {
		if s.AbsMovement() >= cfg.TargetMovement {
			hits++
		}
	}
	return float64(hits) / float64(len(test))
}

// slowMethod trains like spanMethod but takes a measurable amount of time.
type slowMethod struct{}

func (slowMethod) Train(train []types.PriceMovement, cfg config.Config) ([]types.OptimalBoundary, error) {
	time.Sleep(time.Millisecond)
	return spanMethod{}.Train(train, cfg)
}

func (slowMethod) Evaluate(boundaries []types.OptimalBoundary, test []types.PriceMovement, cfg config.Config) float64 {
	return spanMethod{}.Evaluate(boundaries, test, cfg)
}

// failingMethod always refuses to train, exercising the fold error path.
type failingMethod struct{}

func (failingMethod) Train(train []types.PriceMovement, cfg config.Config) ([]types.OptimalBoundary, error) {
	return nil, fmt.Errorf("training unavailable")
}

func (failingMethod) Evaluate(boundaries []types.OptimalBoundary, test []types.PriceMovement, cfg config.Config) float64 {
	return 1
}
