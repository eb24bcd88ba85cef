package data

import (
	"time"

	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// FilterByPeriod keeps the samples from the trailing period, measured back
// from the latest timestamp. A non-positive period returns the input
// unchanged.
func FilterByPeriod(samples []types.PriceMovement, period time.Duration) []types.PriceMovement {
	if period <= 0 || len(samples) == 0 {
		return samples
	}

	ordered := types.SortSamplesByTime(samples)
	cutoff := ordered[len(ordered)-1].Timestamp.Add(-period)

	startIdx := 0
	for i, s := range ordered {
		if !s.Timestamp.Before(cutoff) {
			startIdx = i
			break
		}
	}
	return ordered[startIdx:]
}

// FilterByDateRange keeps the samples whose timestamps fall inside
// [start, end], preserving chronological order.
func FilterByDateRange(samples []types.PriceMovement, start, end time.Time) []types.PriceMovement {
	if len(samples) == 0 {
		return samples
	}

	var filtered []types.PriceMovement
	for _, s := range types.SortSamplesByTime(samples) {
		if !s.Timestamp.Before(start) && !s.Timestamp.After(end) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
