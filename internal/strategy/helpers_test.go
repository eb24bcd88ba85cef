package strategy

import (
	"time"

	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Seed = 42
	return cfg
}

// makeSamples builds hourly-spaced samples from parallel value and movement
// slices.
func makeSamples(values, movements []float64) []types.PriceMovement {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := make([]types.PriceMovement, len(values))
	for i := range values {
		samples[i] = types.PriceMovement{
			Value:     values[i],
			Movement:  movements[i],
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return samples
}

// uniformSamples builds n samples with values start, start+spacing, ... and
// the same movement everywhere.
func uniformSamples(n int, start, spacing, movement float64) []types.PriceMovement {
	values := make([]float64, n)
	movements := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = start + float64(i)*spacing
		movements[i] = movement
	}
	return makeSamples(values, movements)
}
