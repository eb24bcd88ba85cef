package validation

import (
	"time"

	"github.com/quantsignal/boundary-optimizer/internal/numutil"
	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// Stationarity thresholds: a fold-score standard deviation below these marks
// the series stationary for the corresponding scheme.
const (
	expandingStationarityLimit = 0.2
	rollingStationarityLimit   = 0.25
)

// aggregateFolds computes the shared fold statistics: mean training and
// validation scores, validation-score spread, the t-based confidence
// interval and the overfitting flag.
func aggregateFolds(folds []CrossValidationFold, cfg config.Config) CrossValidationResult {
	result := CrossValidationResult{FoldResults: folds}
	if len(folds) == 0 {
		return result
	}

	trainScores := make([]float64, len(folds))
	valScores := make([]float64, len(folds))
	for i, f := range folds {
		trainScores[i] = f.TrainingScore
		valScores[i] = f.ValidationScore
	}

	result.MeanTrainingScore = numutil.Mean(trainScores)
	result.MeanScore = numutil.Mean(valScores)
	result.ScoreStdDev = numutil.StdDev(valScores)

	halfWidth := numutil.ConfidenceInterval(result.ScoreStdDev, len(folds), cfg.ConfidenceLevel)
	result.ConfidenceLow = result.MeanScore - halfWidth
	result.ConfidenceHigh = result.MeanScore + halfWidth

	result.Overfitting = result.MeanTrainingScore-result.MeanScore > cfg.OverfittingGap
	return result
}

// temporalDiagnostics computes the time-series additions: degradation as the
// negative least-squares slope of validation score over fold index (positive
// means performance decays over time), a stationarity verdict from the score
// spread, and the lookback implied by the best fold's training fraction.
func temporalDiagnostics(base CrossValidationResult, samples []types.PriceMovement, stationarityLimit float64) TimeSeriesCrossValidationResult {
	result := TimeSeriesCrossValidationResult{CrossValidationResult: base}

	valScores := make([]float64, len(base.FoldResults))
	for i, f := range base.FoldResults {
		valScores[i] = f.ValidationScore
	}

	result.TemporalDegradation = -numutil.LinearSlope(valScores)
	result.Stationary = base.ScoreStdDev < stationarityLimit
	result.StationarityByMetric = map[string]bool{
		"validation_score": base.ScoreStdDev < stationarityLimit,
		"training_score":   trainingScoreStdDev(base.FoldResults) < stationarityLimit,
	}
	result.OptimalLookback = optimalLookback(base.FoldResults, samples)
	return result
}

func trainingScoreStdDev(folds []CrossValidationFold) float64 {
	scores := make([]float64, len(folds))
	for i, f := range folds {
		scores[i] = f.TrainingScore
	}
	return numutil.StdDev(scores)
}

// optimalLookback converts the best-performing fold's training-sample
// fraction into a time span over the data's full range.
func optimalLookback(folds []CrossValidationFold, samples []types.PriceMovement) time.Duration {
	if len(folds) == 0 || len(samples) == 0 {
		return 0
	}

	best := folds[0]
	for _, f := range folds[1:] {
		if f.ValidationScore > best.ValidationScore {
			best = f
		}
	}

	ordered := types.SortSamplesByTime(samples)
	span := ordered[len(ordered)-1].Timestamp.Sub(ordered[0].Timestamp)
	fraction := float64(best.TrainingSampleCount) / float64(len(samples))
	return time.Duration(fraction * float64(span))
}
