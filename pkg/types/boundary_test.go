package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleSet() []PriceMovement {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []PriceMovement{
		{Value: 10, Movement: 2.0, Timestamp: base.Add(3 * time.Hour)},
		{Value: 20, Movement: -1.0, Timestamp: base.Add(1 * time.Hour)},
		{Value: 30, Movement: 0.5, Timestamp: base.Add(2 * time.Hour)},
		{Value: 5, Movement: -3.0, Timestamp: base},
	}
}

func TestOptimalBoundary_Contains(t *testing.T) {
	b := OptimalBoundary{RangeLow: 10, RangeHigh: 20}

	assert.True(t, b.Contains(10))
	assert.True(t, b.Contains(15))
	assert.True(t, b.Contains(20))
	assert.False(t, b.Contains(9.99))
	assert.False(t, b.Contains(20.01))
}

func TestOptimalBoundary_Width(t *testing.T) {
	assert.Equal(t, 12.5, OptimalBoundary{RangeLow: 2.5, RangeHigh: 15}.Width())
}

func TestOptimalBoundary_SamplesWithin(t *testing.T) {
	b := OptimalBoundary{RangeLow: 10, RangeHigh: 25}
	inside := b.SamplesWithin(sampleSet())

	assert.Len(t, inside, 2)
	for _, s := range inside {
		assert.True(t, b.Contains(s.Value))
	}
}

func TestOptimalBoundary_HitRateAgainst(t *testing.T) {
	b := OptimalBoundary{RangeLow: 0, RangeHigh: 100}

	assert.InDelta(t, 0.5, b.HitRateAgainst(sampleSet(), 2.0), 0.001)
	assert.InDelta(t, 1.0, b.HitRateAgainst(sampleSet(), 0.1), 0.001)

	empty := OptimalBoundary{RangeLow: 200, RangeHigh: 300}
	assert.Equal(t, 0.0, empty.HitRateAgainst(sampleSet(), 1.0))
}

func TestAbsMovement(t *testing.T) {
	assert.Equal(t, 3.0, PriceMovement{Movement: -3.0}.AbsMovement())
	assert.Equal(t, 2.0, PriceMovement{Movement: 2.0}.AbsMovement())
}

func TestSortSamplesByValue(t *testing.T) {
	original := sampleSet()
	sorted := SortSamplesByValue(original)

	assert.Equal(t, []float64{5, 10, 20, 30}, []float64{
		sorted[0].Value, sorted[1].Value, sorted[2].Value, sorted[3].Value,
	})
	// Input order must be preserved.
	assert.Equal(t, 10.0, original[0].Value)
}

func TestSortSamplesByTime(t *testing.T) {
	sorted := SortSamplesByTime(sampleSet())

	for i := 1; i < len(sorted); i++ {
		assert.True(t, !sorted[i].Timestamp.Before(sorted[i-1].Timestamp))
	}
	assert.Equal(t, 5.0, sorted[0].Value)
}
