package optimizer

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantsignal/boundary-optimizer/internal/errors"
	"github.com/quantsignal/boundary-optimizer/internal/strategy"
	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// MethodResult records one strategy's outcome inside a combined run,
// successful or not.
type MethodResult struct {
	Boundaries    []types.OptimalBoundary
	Score         float64
	ExecutionTime time.Duration
	Parameters    map[string]interface{}
	Diagnostics   []string
	Failed        bool
}

// CombinedOptimizationResult is the outcome of running every enabled
// strategy and scoring each on held-out data.
type CombinedOptimizationResult struct {
	BestMethod        string
	BestScore         float64
	OptimalBoundaries []types.OptimalBoundary
	MethodResults     map[string]MethodResult
	TrainingSamples   int
	ValidationSamples int
}

// CombinedOptimizer splits data chronologically, fans out to the enabled
// strategies, scores each on the validation slice and selects the winner.
// Per-strategy failures degrade that strategy's score to zero instead of
// aborting the run.
type CombinedOptimizer struct {
	cfg config.Config
	log zerolog.Logger
}

// NewCombinedOptimizer creates a combined optimizer. Logging is off until a
// logger is attached with WithLogger.
func NewCombinedOptimizer(cfg config.Config) *CombinedOptimizer {
	return &CombinedOptimizer{cfg: cfg, log: zerolog.Nop()}
}

// WithLogger attaches a structured logger for run progress.
func (o *CombinedOptimizer) WithLogger(log zerolog.Logger) *CombinedOptimizer {
	o.log = log
	return o
}

// RunCombinedOptimization runs all enabled strategies with the given
// configuration and no logging.
func RunCombinedOptimization(samples []types.PriceMovement, cfg config.Config) (*CombinedOptimizationResult, error) {
	return NewCombinedOptimizer(cfg).Run(samples)
}

// Run executes the combined optimization over the samples.
func (o *CombinedOptimizer) Run(samples []types.PriceMovement) (*CombinedOptimizationResult, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, errors.WrapError(err, errors.ErrorCategoryInvalidArgument, "CombinedOptimizer", "Run")
	}
	if len(samples) < 4 {
		return nil, errors.NewInsufficientDataError("CombinedOptimizer", "Run", len(samples), 4)
	}

	// Chronological split: callers rely on the natural order of the series,
	// so no shuffling here.
	splitIdx := int(float64(len(samples)) * o.cfg.SplitRatio)
	if splitIdx < 1 {
		splitIdx = 1
	}
	if splitIdx >= len(samples) {
		splitIdx = len(samples) - 1
	}
	train := samples[:splitIdx]
	validation := samples[splitIdx:]

	strategies := strategy.NewEnabledStrategies(o.cfg, train)
	if len(strategies) == 0 {
		return nil, errors.NewInvalidArgumentError("CombinedOptimizer", "Run", "no strategy enabled")
	}

	result := &CombinedOptimizationResult{
		MethodResults:     make(map[string]MethodResult, len(strategies)),
		TrainingSamples:   len(train),
		ValidationSamples: len(validation),
	}

	for _, strat := range strategies {
		mr := o.runStrategy(strat, train, validation)
		result.MethodResults[strat.Name()] = mr
		o.log.Info().
			Str("method", strat.Name()).
			Float64("score", mr.Score).
			Dur("took", mr.ExecutionTime).
			Bool("failed", mr.Failed).
			Msg("strategy finished")

		if result.BestMethod == "" || mr.Score > result.BestScore {
			result.BestMethod = strat.Name()
			result.BestScore = mr.Score
			result.OptimalBoundaries = mr.Boundaries
		}
	}

	o.log.Info().
		Str("best_method", result.BestMethod).
		Float64("best_score", result.BestScore).
		Int("train_samples", result.TrainingSamples).
		Int("validation_samples", result.ValidationSamples).
		Msg("combined optimization done")
	return result, nil
}

// runStrategy validates, executes and scores one strategy. Panics and errors
// are captured into the method result rather than propagated.
func (o *CombinedOptimizer) runStrategy(strat strategy.BoundaryStrategy, train, validation []types.PriceMovement) (mr MethodResult) {
	start := time.Now()
	mr.Parameters = map[string]interface{}{
		"target_movement": o.cfg.TargetMovement,
		"split_ratio":     o.cfg.SplitRatio,
	}
	defer func() {
		mr.ExecutionTime = time.Since(start)
		if r := recover(); r != nil {
			mr.Failed = true
			mr.Score = 0
			mr.Boundaries = nil
			mr.Diagnostics = append(mr.Diagnostics, fmt.Sprintf("panic: %v", r))
			o.log.Error().Str("method", strat.Name()).Interface("panic", r).Msg("strategy panicked")
		}
	}()

	report := strat.Validate(train)
	mr.Diagnostics = append(mr.Diagnostics, report.Warnings...)
	if !report.IsValid() {
		mr.Failed = true
		mr.Diagnostics = append(mr.Diagnostics, report.Errors...)
		return mr
	}

	boundaries, err := strat.Optimize(train)
	if err != nil {
		mr.Failed = true
		mr.Diagnostics = append(mr.Diagnostics, err.Error())
		return mr
	}

	mr.Boundaries = boundaries
	mr.Score = strat.Evaluate(boundaries, validation)
	return mr
}
