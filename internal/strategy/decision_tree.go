package strategy

import (
	"fmt"
	"math"
	"sort"

	"github.com/quantsignal/boundary-optimizer/internal/errors"
	"github.com/quantsignal/boundary-optimizer/internal/numutil"
	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

const (
	// gapThreshold is the minimum distance between adjacent measurement
	// values for the gap detector to emit a split.
	gapThreshold = 5.0

	// behaviorChangeThreshold is the minimum difference in average movement
	// between the left and right windows for a behavior-change split.
	behaviorChangeThreshold = 1.0

	// treeLabelTarget labels samples for the fallback classifier: a sample
	// is positive when |movement| meets this threshold.
	treeLabelTarget = 1.0
)

// DecisionTreeStrategy finds split points in the measurement-value axis
// where movement behavior changes, using a gap detector and a
// behavior-change detector with a real classification-tree fallback.
type DecisionTreeStrategy struct {
	baseStrategy
	maxDepth int
}

// NewDecisionTreeStrategy creates a decision-tree split strategy.
func NewDecisionTreeStrategy(targetMovement float64, maxDepth int) *DecisionTreeStrategy {
	return &DecisionTreeStrategy{
		baseStrategy: baseStrategy{enabled: true, targetMovement: targetMovement},
		maxDepth:     maxDepth,
	}
}

// Name returns the name of the strategy.
func (s *DecisionTreeStrategy) Name() string {
	return "DecisionTree"
}

// Validate checks the minimum data requirements of split detection.
func (s *DecisionTreeStrategy) Validate(samples []types.PriceMovement) ValidationReport {
	var report ValidationReport
	if len(samples) < 2 {
		report.Errors = append(report.Errors,
			fmt.Sprintf("split detection needs at least 2 samples, got %d", len(samples)))
	}
	if len(samples) >= 2 && len(samples) < 8 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d samples leaves the behavior-change window degenerate", len(samples)))
	}
	return report
}

// Optimize converts detected split points into boundaries spanning each
// segment between consecutive splits.
func (s *DecisionTreeStrategy) Optimize(samples []types.PriceMovement) ([]types.OptimalBoundary, error) {
	splits, err := OptimizeWithDecisionTree(samples, s.maxDepth)
	if err != nil {
		return nil, err
	}
	return s.segmentsToBoundaries(samples, splits), nil
}

// segmentsToBoundaries turns the ordered splits into one boundary per
// segment, keeping segments with at least one sample.
func (s *DecisionTreeStrategy) segmentsToBoundaries(samples []types.PriceMovement, splits []float64) []types.OptimalBoundary {
	sorted := types.SortSamplesByValue(samples)
	edges := append([]float64{sorted[0].Value}, splits...)
	edges = append(edges, sorted[len(sorted)-1].Value)

	var boundaries []types.OptimalBoundary
	for i := 0; i+1 < len(edges); i++ {
		b := types.OptimalBoundary{RangeLow: edges[i], RangeHigh: edges[i+1], Method: s.Name()}
		inside := b.SamplesWithin(sorted)
		if len(inside) == 0 {
			continue
		}
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
		boundaries = append(boundaries, b)
	}
	return boundaries
}

// OptimizeWithDecisionTree detects split points: gaps in the value axis
// first, behavior changes second, a fitted classification tree as fallback
// when neither detector yields at least two splits. The result is capped to
// maxDepth points, keeping the splits that most separate average movement.
func OptimizeWithDecisionTree(samples []types.PriceMovement, maxDepth int) ([]float64, error) {
	if maxDepth <= 0 || maxDepth > config.MaxDepthCeiling {
		return nil, errors.NewInvalidArgumentError("DecisionTree", "OptimizeWithDecisionTree",
			fmt.Sprintf("max depth must be between 1 and %d, got %d", config.MaxDepthCeiling, maxDepth))
	}
	if len(samples) < 2 {
		return nil, errors.NewInsufficientDataError("DecisionTree", "OptimizeWithDecisionTree", len(samples), 2)
	}

	sorted := types.SortSamplesByValue(samples)

	gapSplits := detectGapSplits(sorted)
	behaviorSplits := detectBehaviorSplits(sorted, gapSplits)

	splits := append([]float64{}, gapSplits...)
	splits = append(splits, behaviorSplits...)

	if len(splits) < 2 {
		splits = fitClassificationTree(sorted, maxDepth)
	}

	sort.Float64s(splits)
	if len(splits) > maxDepth {
		splits = reduceSplits(sorted, splits, maxDepth)
	}
	return splits, nil
}

// detectGapSplits emits the midpoint of every adjacent value pair further
// apart than gapThreshold.
func detectGapSplits(sorted []types.PriceMovement) []float64 {
	var splits []float64
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Value-sorted[i-1].Value > gapThreshold {
			splits = append(splits, (sorted[i].Value+sorted[i-1].Value)/2)
		}
	}
	return splits
}

// detectBehaviorSplits slides a window across the sorted samples and emits a
// split wherever the average movement left of the cut differs from the
// average right of it by more than behaviorChangeThreshold. Splits within
// gapThreshold of a gap split are skipped since gap splits take priority.
func detectBehaviorSplits(sorted []types.PriceMovement, gapSplits []float64) []float64 {
	window := len(sorted) / 4
	if window > 2 {
		window = 2
	}
	if window < 1 {
		window = 1
	}

	var splits []float64
	for i := window; i+window <= len(sorted); i++ {
		left := 0.0
		for _, s := range sorted[i-window : i] {
			left += s.Movement
		}
		right := 0.0
		for _, s := range sorted[i : i+window] {
			right += s.Movement
		}
		left /= float64(window)
		right /= float64(window)

		if math.Abs(left-right) <= behaviorChangeThreshold {
			continue
		}
		split := (sorted[i-1].Value + sorted[i].Value) / 2
		nearGap := false
		for _, g := range gapSplits {
			if math.Abs(split-g) < gapThreshold {
				nearGap = true
				break
			}
		}
		if !nearGap {
			splits = append(splits, split)
		}
	}
	return splits
}

// reduceSplits keeps the maxDepth splits that most separate average movement
// on either side, greedy best-first, ties broken by position order.
func reduceSplits(sorted []types.PriceMovement, splits []float64, maxDepth int) []float64 {
	type scored struct {
		split      float64
		separation float64
		order      int
	}
	ranked := make([]scored, 0, len(splits))
	for i, split := range splits {
		var left, right []float64
		for _, s := range sorted {
			if s.Value < split {
				left = append(left, s.Movement)
			} else {
				right = append(right, s.Movement)
			}
		}
		ranked = append(ranked, scored{
			split:      split,
			separation: math.Abs(numutil.Mean(left) - numutil.Mean(right)),
			order:      i,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].separation != ranked[j].separation {
			return ranked[i].separation > ranked[j].separation
		}
		return ranked[i].order < ranked[j].order
	})

	kept := make([]float64, 0, maxDepth)
	for _, r := range ranked[:maxDepth] {
		kept = append(kept, r.split)
	}
	sort.Float64s(kept)
	return kept
}

// fitClassificationTree labels samples by |movement| >= treeLabelTarget,
// fits a small binary classification tree on the measurement value, and
// returns its internal thresholds.
func fitClassificationTree(sorted []types.PriceMovement, maxDepth int) []float64 {
	labels := make([]bool, len(sorted))
	for i, s := range sorted {
		labels[i] = s.AbsMovement() >= treeLabelTarget
	}
	var thresholds []float64
	growTree(sorted, labels, 0, len(sorted), maxDepth, &thresholds)
	return thresholds
}

// growTree recursively finds the gini-optimal threshold in sorted[lo:hi] and
// records it, splitting further until maxDepth or purity.
func growTree(sorted []types.PriceMovement, labels []bool, lo, hi, depth int, thresholds *[]float64) {
	if depth <= 0 || hi-lo < 4 {
		return
	}

	positives := 0
	for i := lo; i < hi; i++ {
		if labels[i] {
			positives++
		}
	}
	if positives == 0 || positives == hi-lo {
		return // Pure node, nothing to split
	}

	bestIdx := -1
	bestGini := math.Inf(1)
	leftPos := 0
	for i := lo + 1; i < hi; i++ {
		if labels[i-1] {
			leftPos++
		}
		if sorted[i].Value == sorted[i-1].Value {
			continue // No threshold between equal values
		}
		nl := i - lo
		nr := hi - i
		rightPos := positives - leftPos
		gini := giniImpurity(leftPos, nl)*float64(nl) + giniImpurity(rightPos, nr)*float64(nr)
		if gini < bestGini {
			bestGini = gini
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return
	}

	*thresholds = append(*thresholds, (sorted[bestIdx-1].Value+sorted[bestIdx].Value)/2)
	growTree(sorted, labels, lo, bestIdx, depth-1, thresholds)
	growTree(sorted, labels, bestIdx, hi, depth-1, thresholds)
}

func giniImpurity(positives, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(positives) / float64(n)
	return 2 * p * (1 - p)
}
