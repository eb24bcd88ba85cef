package validation

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/quantsignal/boundary-optimizer/internal/errors"
	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// KFoldValidator shuffles the samples and validates the method on k
// held-out partitions. Random k-fold ignores temporal order; use the
// time-series validators when look-ahead bias matters.
type KFoldValidator struct {
	k   int
	rng *rand.Rand
}

// NewKFoldValidator creates a k-fold validator with time-seeded shuffling.
func NewKFoldValidator(k int) *KFoldValidator {
	return &KFoldValidator{k: k, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewKFoldValidatorWithSeed creates a k-fold validator with a deterministic
// shuffle for reproducible runs.
func NewKFoldValidatorWithSeed(k int, seed int64) *KFoldValidator {
	return &KFoldValidator{k: k, rng: rand.New(rand.NewSource(seed))}
}

// Validate shuffles the samples, partitions them into k near-equal folds
// (remainder spread over the first folds) and trains on k-1 folds while
// validating on the held-out one, k times over.
func (v *KFoldValidator) Validate(samples []types.PriceMovement, method Method, cfg config.Config) (*CrossValidationResult, error) {
	if v.k <= 1 {
		return nil, errors.NewInvalidArgumentError("KFold", "Validate",
			fmt.Sprintf("k must be greater than 1, got %d", v.k))
	}
	if len(samples) < v.k {
		return nil, errors.NewInsufficientDataError("KFold", "Validate", len(samples), v.k)
	}

	shuffled := make([]types.PriceMovement, len(samples))
	copy(shuffled, samples)
	// Fisher-Yates
	for i := len(shuffled) - 1; i > 0; i-- {
		j := v.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	partitions := partition(shuffled, v.k)

	folds := make([]CrossValidationFold, 0, v.k)
	for i := 0; i < v.k; i++ {
		var train []types.PriceMovement
		for j, part := range partitions {
			if j != i {
				train = append(train, part...)
			}
		}
		holdout := partitions[i]

		fold := CrossValidationFold{
			Index:                 i,
			TrainingSampleCount:   len(train),
			ValidationSampleCount: len(holdout),
		}

		start := time.Now()
		boundaries, err := method.Train(train, cfg)
		if err == nil {
			fold.Boundaries = boundaries
			fold.TrainingScore = method.Evaluate(boundaries, train, cfg)
			fold.ValidationScore = method.Evaluate(boundaries, holdout, cfg)
			fold.Validation = ValidateBoundaries(boundaries, holdout)
		}
		fold.Duration = time.Since(start)
		folds = append(folds, fold)
	}

	result := aggregateFolds(folds, cfg)
	return &result, nil
}

// partition cuts the samples into k near-equal parts, distributing the
// remainder to the first folds.
func partition(samples []types.PriceMovement, k int) [][]types.PriceMovement {
	base := len(samples) / k
	remainder := len(samples) % k

	parts := make([][]types.PriceMovement, 0, k)
	start := 0
	for i := 0; i < k; i++ {
		size := base
		if i < remainder {
			size++
		}
		parts = append(parts, samples[start:start+size])
		start += size
	}
	return parts
}
