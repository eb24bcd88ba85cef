package types

import (
	"sort"
	"time"
)

// PriceMovement is a single observation: the indicator's measurement value
// and the normalized price movement that followed it. Movement is expressed
// in ATR units (signed). Produced upstream by the correlation calculator;
// this engine only reads it.
type PriceMovement struct {
	Value     float64
	Movement  float64
	Timestamp time.Time
	Context   map[string]string
}

// AbsMovement returns the magnitude of the movement.
func (p PriceMovement) AbsMovement() float64 {
	if p.Movement < 0 {
		return -p.Movement
	}
	return p.Movement
}

// SortSamplesByValue returns a copy of samples ordered by measurement value.
func SortSamplesByValue(samples []PriceMovement) []PriceMovement {
	sorted := make([]PriceMovement, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Value < sorted[j].Value
	})
	return sorted
}

// SortSamplesByTime returns a copy of samples ordered by timestamp.
func SortSamplesByTime(samples []PriceMovement) []PriceMovement {
	sorted := make([]PriceMovement, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}
