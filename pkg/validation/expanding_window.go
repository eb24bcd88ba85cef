package validation

import (
	"fmt"
	"time"

	"github.com/quantsignal/boundary-optimizer/internal/errors"
	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// ExpandingWindowValidator walks a time-series forward with a growing
// training window: training starts at an initial fraction of the data and
// gains a step fraction each round, always validating on the segment
// immediately after it. Training data never includes timestamps later than
// the validation data.
type ExpandingWindowValidator struct {
	initialSize float64
	stepSize    float64
}

// NewExpandingWindowValidator creates an expanding-window validator.
// initialSize and stepSize are fractions of the dataset in (0,1).
func NewExpandingWindowValidator(initialSize, stepSize float64) *ExpandingWindowValidator {
	return &ExpandingWindowValidator{initialSize: initialSize, stepSize: stepSize}
}

// Validate runs the expanding-window rounds and aggregates the folds with
// temporal diagnostics.
func (v *ExpandingWindowValidator) Validate(samples []types.PriceMovement, method Method, cfg config.Config) (*TimeSeriesCrossValidationResult, error) {
	if v.initialSize <= 0 || v.initialSize >= 1 {
		return nil, errors.NewInvalidArgumentError("ExpandingWindow", "Validate",
			fmt.Sprintf("initial size fraction must be in (0,1), got %.2f", v.initialSize))
	}
	if v.stepSize <= 0 || v.stepSize >= 1 {
		return nil, errors.NewInvalidArgumentError("ExpandingWindow", "Validate",
			fmt.Sprintf("step size fraction must be in (0,1), got %.2f", v.stepSize))
	}

	ordered := types.SortSamplesByTime(samples)
	n := len(ordered)
	step := int(float64(n) * v.stepSize)
	if step < 1 {
		step = 1
	}
	trainEnd := int(float64(n) * v.initialSize)
	if trainEnd < 1 {
		trainEnd = 1
	}
	if trainEnd+1 > n {
		return nil, errors.NewInsufficientDataError("ExpandingWindow", "Validate", n, trainEnd+1)
	}

	var folds []CrossValidationFold
	index := 0
	for trainEnd < n {
		valEnd := trainEnd + step
		if valEnd > n {
			valEnd = n
		}
		train := ordered[:trainEnd]
		holdout := ordered[trainEnd:valEnd]
		if len(holdout) == 0 {
			break
		}

		fold := CrossValidationFold{
			Index:                 index,
			TrainingSampleCount:   len(train),
			ValidationSampleCount: len(holdout),
			PeriodStart:           train[0].Timestamp,
			PeriodEnd:             holdout[len(holdout)-1].Timestamp,
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

		trainEnd += step
		index++
	}

	base := aggregateFolds(folds, cfg)
	result := temporalDiagnostics(base, ordered, expandingStationarityLimit)
	return &result, nil
}
