package validation

import (
	"time"

	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// Method is the contract a cross-validation scheme exercises: train
// boundaries on one slice, score them on another. Combined optimization and
// single strategies both fit behind it.
type Method interface {
	Train(train []types.PriceMovement, cfg config.Config) ([]types.OptimalBoundary, error)
	Evaluate(boundaries []types.OptimalBoundary, test []types.PriceMovement, cfg config.Config) float64
}

// ValidationStrategy defines the interface for cross-validation schemes.
type ValidationStrategy interface {
	Validate(samples []types.PriceMovement, method Method, cfg config.Config) (*CrossValidationResult, error)
}

// CrossValidationFold is one train/validate round. Folds are produced once
// per validation run and never reused across runs.
type CrossValidationFold struct {
	Index                 int
	TrainingScore         float64
	ValidationScore       float64
	Boundaries            []types.OptimalBoundary
	Validation            *ValidationResult
	TrainingSampleCount   int
	ValidationSampleCount int
	PeriodStart           time.Time
	PeriodEnd             time.Time
	Duration              time.Duration
}

// CrossValidationResult aggregates fold scores.
type CrossValidationResult struct {
	FoldResults       []CrossValidationFold
	MeanTrainingScore float64
	MeanScore         float64
	ScoreStdDev       float64
	ConfidenceLow     float64
	ConfidenceHigh    float64
	Overfitting       bool
}

// TimeSeriesCrossValidationResult extends the fold aggregate with the
// temporal diagnostics only ordered folds can provide.
type TimeSeriesCrossValidationResult struct {
	CrossValidationResult
	Stationary           bool
	StationarityByMetric map[string]bool
	TemporalDegradation  float64
	OptimalLookback      time.Duration
}

// BoundaryStability is the per-boundary detail of an out-of-sample
// validation.
type BoundaryStability struct {
	Boundary           types.OptimalBoundary
	InSampleHitRate    float64
	OutOfSampleHitRate float64
	Degradation        float64
	Stable             bool
}

// ValidationResult is the outcome of testing fixed boundaries against
// independent out-of-sample data.
type ValidationResult struct {
	InSamplePerformance    float64
	OutOfSamplePerformance float64
	PerformanceDegradation float64
	Overfitting            bool
	BoundaryDetails        []BoundaryStability
}
