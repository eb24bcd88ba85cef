package strategy

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/quantsignal/boundary-optimizer/internal/errors"
	"github.com/quantsignal/boundary-optimizer/internal/numutil"
	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

const (
	// clusterMinMembers is the minimum member count for a cluster to become
	// a boundary.
	clusterMinMembers = 5

	// clusterMinSamplesPerK and clusterRecommendedPerK scale the data
	// requirement with the requested cluster count.
	clusterMinSamplesPerK       = 5
	clusterRecommendedPerK      = 20
	clusterBoundaryStdDevFactor = 1.5

	// Confidence blend weights: sample size, hit rate, cohesion, density.
	clusterWeightSize     = 0.4
	clusterWeightHitRate  = 0.3
	clusterWeightCohesion = 0.2
	clusterWeightDensity  = 0.1

	defaultKMeansIterations = 100
	defaultKMeansTolerance  = 1e-4
)

// ClusteringStrategy groups samples by measurement value with k-means and
// derives a boundary from each sufficiently large cluster.
type ClusteringStrategy struct {
	baseStrategy
	k             int
	maxIterations int
	tolerance     float64
	rng           *rand.Rand
}

// NewClusteringStrategy creates a clustering strategy with time-seeded
// randomness for the k-means initialization.
func NewClusteringStrategy(targetMovement float64, k int) *ClusteringStrategy {
	return newClusteringStrategy(targetMovement, k, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewClusteringStrategyWithSeed creates a clustering strategy with
// deterministic k-means initialization for reproducible runs.
func NewClusteringStrategyWithSeed(targetMovement float64, k int, seed int64) *ClusteringStrategy {
	return newClusteringStrategy(targetMovement, k, rand.New(rand.NewSource(seed)))
}

func newClusteringStrategy(targetMovement float64, k int, rng *rand.Rand) *ClusteringStrategy {
	return &ClusteringStrategy{
		baseStrategy:  baseStrategy{enabled: true, targetMovement: targetMovement},
		k:             k,
		maxIterations: defaultKMeansIterations,
		tolerance:     defaultKMeansTolerance,
		rng:           rng,
	}
}

// Name returns the name of the strategy.
func (s *ClusteringStrategy) Name() string {
	return "Clustering"
}

// Validate checks the data against the k-scaled minimum requirements.
func (s *ClusteringStrategy) Validate(samples []types.PriceMovement) ValidationReport {
	var report ValidationReport
	if s.k <= 0 || s.k > config.MaxClustersCeiling {
		report.Errors = append(report.Errors,
			fmt.Sprintf("cluster count must be between 1 and %d, got %d", config.MaxClustersCeiling, s.k))
		return report
	}
	if len(samples) < clusterMinSamplesPerK*s.k {
		report.Errors = append(report.Errors,
			fmt.Sprintf("clustering with k=%d needs at least %d samples, got %d", s.k, clusterMinSamplesPerK*s.k, len(samples)))
		return report
	}
	if len(samples) < clusterRecommendedPerK*s.k {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("clustering with k=%d works best with %d+ samples, got %d", s.k, clusterRecommendedPerK*s.k, len(samples)))
	}
	if zeroVariance(samples) {
		report.Errors = append(report.Errors, "all measurement values are identical; cannot form groups")
		return report
	}
	if d := distinctValueCount(samples); d < s.k {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("only %d distinct measurement values; reducing cluster count from %d to %d", d, s.k, d))
	}
	return report
}

// Optimize clusters the samples and converts qualifying clusters into
// boundaries.
func (s *ClusteringStrategy) Optimize(samples []types.PriceMovement) ([]types.OptimalBoundary, error) {
	clusters, err := s.Cluster(samples)
	if err != nil {
		return nil, err
	}

	overallDensity := 0.0
	if valueRange := sampleValueRange(samples); valueRange > 0 {
		overallDensity = float64(len(samples)) / valueRange
	}
	var boundaries []types.OptimalBoundary
	for _, c := range clusters {
		if c.MemberCount < clusterMinMembers {
			continue
		}
		boundaries = append(boundaries, s.clusterToBoundary(c, overallDensity))
	}
	sort.SliceStable(boundaries, func(i, j int) bool {
		return boundaries[i].Confidence > boundaries[j].Confidence
	})
	return boundaries, nil
}

// Cluster runs k-means over the measurement values and returns at most k
// clusters, ordered by center. When k-means fails numerically it falls back
// to chunking the sorted samples into k contiguous groups.
func (s *ClusteringStrategy) Cluster(samples []types.PriceMovement) ([]types.ClusterResult, error) {
	if report := s.Validate(samples); !report.IsValid() {
		if zeroVariance(samples) && len(samples) >= clusterMinSamplesPerK*s.k {
			return nil, errors.NewNumericalError(s.Name(), "Cluster", errors.NumericalReasonZeroVariance, samples[0].Value)
		}
		if s.k <= 0 || s.k > config.MaxClustersCeiling {
			return nil, errors.NewInvalidArgumentError(s.Name(), "Cluster", report.Errors[0])
		}
		return nil, errors.NewInsufficientDataError(s.Name(), "Cluster", len(samples), clusterMinSamplesPerK*s.k)
	}

	k := s.k
	// Fewer distinct values than clusters leaves k-means with nothing to
	// seed the extra centers from; shrink k to what the data can fill.
	if d := distinctValueCount(samples); d < k {
		k = d
	}

	assignments, centers, ok := s.kmeans(samples, k)
	if !ok {
		return s.fallbackChunks(samples, k), nil
	}
	return buildClusters(samples, assignments, centers), nil
}

// OptimizeWithClustering is the package-level entry point: time-seeded
// k-means on the measurement values.
func OptimizeWithClustering(samples []types.PriceMovement, k int) ([]types.ClusterResult, error) {
	return NewClusteringStrategy(config.DefaultTargetMovement, k).Cluster(samples)
}

// kmeans runs Lloyd's algorithm on the 1-D measurement values. Returns
// ok=false when it fails to produce finite centers.
func (s *ClusteringStrategy) kmeans(samples []types.PriceMovement, k int) ([]int, []float64, bool) {
	// Initialize centers from distinct random samples.
	centers := make([]float64, k)
	perm := s.rng.Perm(len(samples))
	seen := make(map[float64]bool)
	ci := 0
	for _, idx := range perm {
		v := samples[idx].Value
		if seen[v] {
			continue
		}
		seen[v] = true
		centers[ci] = v
		ci++
		if ci == k {
			break
		}
	}
	if ci < k {
		return nil, nil, false
	}

	assignments := make([]int, len(samples))
	for iter := 0; iter < s.maxIterations; iter++ {
		for i, sample := range samples {
			best := 0
			bestDist := math.Abs(sample.Value - centers[0])
			for c := 1; c < k; c++ {
				if d := math.Abs(sample.Value - centers[c]); d < bestDist {
					bestDist = d
					best = c
				}
			}
			assignments[i] = best
		}

		shift := 0.0
		for c := 0; c < k; c++ {
			sum, count := 0.0, 0
			for i, sample := range samples {
				if assignments[i] == c {
					sum += sample.Value
					count++
				}
			}
			if count == 0 {
				// Reseed empty clusters from a random sample.
				centers[c] = samples[s.rng.Intn(len(samples))].Value
				shift = math.Inf(1)
				continue
			}
			next := sum / float64(count)
			if !numutil.IsFinite(next) {
				return nil, nil, false
			}
			shift += math.Abs(next - centers[c])
			centers[c] = next
		}
		if shift < s.tolerance {
			break
		}
	}
	return assignments, centers, true
}

// fallbackChunks sorts by measurement value and cuts the samples into k
// contiguous equal groups.
func (s *ClusteringStrategy) fallbackChunks(samples []types.PriceMovement, k int) []types.ClusterResult {
	sorted := types.SortSamplesByValue(samples)
	chunk := len(sorted) / k
	assignments := make([]int, len(sorted))
	centers := make([]float64, k)
	for c := 0; c < k; c++ {
		start := c * chunk
		end := start + chunk
		if c == k-1 {
			end = len(sorted)
		}
		sum := 0.0
		for i := start; i < end; i++ {
			assignments[i] = c
			sum += sorted[i].Value
		}
		centers[c] = sum / float64(end-start)
	}
	return buildClusters(sorted, assignments, centers)
}

// buildClusters materializes ClusterResults from assignments, ordered by
// center.
func buildClusters(samples []types.PriceMovement, assignments []int, centers []float64) []types.ClusterResult {
	clusters := make([]types.ClusterResult, 0, len(centers))
	for c := range centers {
		var members []types.PriceMovement
		var values, movements []float64
		for i, sample := range samples {
			if assignments[i] == c {
				members = append(members, sample)
				values = append(values, sample.Value)
				movements = append(movements, sample.Movement)
			}
		}
		if len(members) == 0 {
			continue
		}
		center := numutil.Mean(values)
		stdDev := numutil.StdDev(values)
		low := center - clusterBoundaryStdDevFactor*stdDev
		if low < 0 {
			low = 0
		}
		clusters = append(clusters, types.ClusterResult{
			Center:          center,
			AverageMovement: numutil.Mean(movements),
			MemberCount:     len(members),
			Members:         members,
			Variance:        numutil.Variance(values),
			Range: types.ValueRange{
				Low:  low,
				High: center + clusterBoundaryStdDevFactor*stdDev,
			},
		})
	}
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Center < clusters[j].Center
	})
	return clusters
}

// clusterToBoundary derives the boundary and its blended confidence from a
// cluster. overallDensity is the dataset's samples-per-unit-value, used to
// score how much denser than average the cluster is.
func (s *ClusteringStrategy) clusterToBoundary(c types.ClusterResult, overallDensity float64) types.OptimalBoundary {
	hits, ups := 0, 0
	sumAbs, sumDist := 0.0, 0.0
	for _, m := range c.Members {
		if m.AbsMovement() >= s.targetMovement {
			hits++
		}
		if m.Movement > 0 {
			ups++
		}
		sumAbs += m.AbsMovement()
		sumDist += math.Abs(m.Value - c.Center)
	}
	n := float64(c.MemberCount)
	hitRate := float64(hits) / n

	// Sample-size factor saturates so huge clusters cannot dominate.
	sizeFactor := math.Min(1, n/float64(clusterRecommendedPerK))
	cohesion := 1 / (1 + sumDist/n)
	density := 0.0
	if width := c.Range.High - c.Range.Low; width > 0 && overallDensity > 0 {
		relative := (n / width) / overallDensity
		density = relative / (1 + relative)
	}

	confidence := clusterWeightSize*sizeFactor +
		clusterWeightHitRate*hitRate +
		clusterWeightCohesion*cohesion +
		clusterWeightDensity*density

	return types.OptimalBoundary{
		RangeLow:        c.Range.Low,
		RangeHigh:       c.Range.High,
		Confidence:      confidence,
		ExpectedATRMove: sumAbs / n,
		SampleCount:     c.MemberCount,
		HitRate:         hitRate,
		ProbabilityUp:   float64(ups) / n,
		Method:          s.Name(),
	}
}

func distinctValueCount(samples []types.PriceMovement) int {
	seen := make(map[float64]struct{}, len(samples))
	for _, s := range samples {
		seen[s.Value] = struct{}{}
	}
	return len(seen)
}

func zeroVariance(samples []types.PriceMovement) bool {
	if len(samples) == 0 {
		return false
	}
	first := samples[0].Value
	for _, s := range samples[1:] {
		if s.Value != first {
			return false
		}
	}
	return true
}

func sampleValueRange(samples []types.PriceMovement) float64 {
	if len(samples) == 0 {
		return 0
	}
	minVal, maxVal := samples[0].Value, samples[0].Value
	for _, s := range samples[1:] {
		if s.Value < minVal {
			minVal = s.Value
		}
		if s.Value > maxVal {
			maxVal = s.Value
		}
	}
	return maxVal - minVal
}
