package types

// OptimalBoundary is a value range hypothesized to precede large price
// movements, together with the metrics that justify it. Boundaries are
// created by a strategy and never mutated afterwards.
type OptimalBoundary struct {
	RangeLow        float64
	RangeHigh       float64
	Confidence      float64
	ExpectedATRMove float64
	SampleCount     int
	HitRate         float64
	ProbabilityUp   float64
	Method          string
}

// Contains reports whether a measurement value falls inside the boundary.
func (b OptimalBoundary) Contains(value float64) bool {
	return value >= b.RangeLow && value <= b.RangeHigh
}

// Width returns the size of the boundary's value range.
func (b OptimalBoundary) Width() float64 {
	return b.RangeHigh - b.RangeLow
}

// SamplesWithin returns the subset of samples whose value falls inside the
// boundary.
func (b OptimalBoundary) SamplesWithin(samples []PriceMovement) []PriceMovement {
	var inside []PriceMovement
	for _, s := range samples {
		if b.Contains(s.Value) {
			inside = append(inside, s)
		}
	}
	return inside
}

// HitRateAgainst computes the fraction of in-range samples whose absolute
// movement meets or exceeds the target. Returns 0 when no sample is in range.
func (b OptimalBoundary) HitRateAgainst(samples []PriceMovement, target float64) float64 {
	inside := b.SamplesWithin(samples)
	if len(inside) == 0 {
		return 0
	}
	hits := 0
	for _, s := range inside {
		if s.AbsMovement() >= target {
			hits++
		}
	}
	return float64(hits) / float64(len(inside))
}
