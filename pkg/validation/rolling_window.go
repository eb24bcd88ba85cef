package validation

import (
	"fmt"
	"time"

	"github.com/quantsignal/boundary-optimizer/internal/errors"
	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// RollingWindowValidator slides fixed-size training and validation windows
// forward through a time-series. Unlike the expanding window the training
// size stays constant, so fold scores measure stability under a constant
// information budget.
type RollingWindowValidator struct {
	windowSize float64
	stepSize   float64
}

// NewRollingWindowValidator creates a rolling-window validator. windowSize
// is the training-window fraction, stepSize the slide (and validation
// window) fraction, both in (0,1).
func NewRollingWindowValidator(windowSize, stepSize float64) *RollingWindowValidator {
	return &RollingWindowValidator{windowSize: windowSize, stepSize: stepSize}
}

// Validate runs the rolling-window rounds and aggregates the folds with
// temporal diagnostics.
func (v *RollingWindowValidator) Validate(samples []types.PriceMovement, method Method, cfg config.Config) (*TimeSeriesCrossValidationResult, error) {
	if v.windowSize <= 0 || v.windowSize >= 1 {
		return nil, errors.NewInvalidArgumentError("RollingWindow", "Validate",
			fmt.Sprintf("window size fraction must be in (0,1), got %.2f", v.windowSize))
	}
	if v.stepSize <= 0 || v.stepSize >= 1 {
		return nil, errors.NewInvalidArgumentError("RollingWindow", "Validate",
			fmt.Sprintf("step size fraction must be in (0,1), got %.2f", v.stepSize))
	}

	ordered := types.SortSamplesByTime(samples)
	n := len(ordered)
	window := int(float64(n) * v.windowSize)
	if window < 1 {
		window = 1
	}
	step := int(float64(n) * v.stepSize)
	if step < 1 {
		step = 1
	}
	if window+1 > n {
		return nil, errors.NewInsufficientDataError("RollingWindow", "Validate", n, window+1)
	}

	var folds []CrossValidationFold
	index := 0
	for start := 0; start+window < n; start += step {
		trainEnd := start + window
		valEnd := trainEnd + step
		if valEnd > n {
			valEnd = n
		}
		train := ordered[start:trainEnd]
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

		foldStart := time.Now()
		boundaries, err := method.Train(train, cfg)
		if err == nil {
			fold.Boundaries = boundaries
			fold.TrainingScore = method.Evaluate(boundaries, train, cfg)
			fold.ValidationScore = method.Evaluate(boundaries, holdout, cfg)
			fold.Validation = ValidateBoundaries(boundaries, holdout)
		}
		fold.Duration = time.Since(foldStart)
		folds = append(folds, fold)
		index++
	}

	base := aggregateFolds(folds, cfg)
	result := temporalDiagnostics(base, ordered, rollingStationarityLimit)
	return &result, nil
}
