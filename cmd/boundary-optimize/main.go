package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/quantsignal/boundary-optimizer/internal/monitoring"
	"github.com/quantsignal/boundary-optimizer/internal/optimizer"
	"github.com/quantsignal/boundary-optimizer/pkg/config"
	"github.com/quantsignal/boundary-optimizer/pkg/data"
	"github.com/quantsignal/boundary-optimizer/pkg/reporting"
	"github.com/quantsignal/boundary-optimizer/pkg/types"
	"github.com/quantsignal/boundary-optimizer/pkg/validation"
)

func main() {
	// Load environment variables from .env file if present
	_ = godotenv.Load()

	flags := ParseFlags()
	if err := flags.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	log := setupLogger(*flags.Verbose)
	cfg := flags.ToConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	health := monitoring.NewHealthChecker()
	if *flags.MetricsPort > 0 {
		go func() {
			if err := monitoring.Serve(*flags.MetricsPort, health); err != nil {
				log.Error().Err(err).Msg("Metrics server stopped")
			}
		}()
	}

	files := flags.DataFiles()
	datasets := make(map[string][]types.PriceMovement, len(files))
	for _, path := range files {
		samples, err := data.LoadSamples(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Failed to load samples")
		}
		log.Info().Int("samples", len(samples)).Str("file", path).Msg("Loaded samples")
		datasets[path] = samples
	}

	console := reporting.NewConsoleReporter()

	// Every run goes through the pool; a single file is a batch of one.
	results := runBatch(files, datasets, cfg, log, health)

	if len(files) > 1 {
		for _, path := range files {
			if res, ok := results[path]; ok {
				fmt.Printf("\nDataset: %s\n", path)
				console.PrintOptimizationSummary(res)
			}
		}
		if *flags.ValidationScheme != "none" || *flags.Pareto || *flags.JSONOutput != "" || *flags.ExcelOutput != "" {
			log.Warn().Msg("Validation, Pareto and report flags apply to single-file runs only")
		}
		return
	}

	optResult, ok := results[files[0]]
	if !ok {
		os.Exit(1)
	}
	samples := datasets[files[0]]
	console.PrintOptimizationSummary(optResult)

	checkHoldoutStability(cfg, optResult, samples, log)

	// Cross-validate the combined procedure
	valResult := runValidation(flags, cfg, samples, console, log, health)

	if *flags.Pareto {
		runPareto(cfg, samples, log)
	}

	writeReports(flags, optResult, valResult, log)
}

// runBatch fans the datasets out across the worker pool and collects the
// per-file results. Job failures are logged and reported to the health
// endpoint rather than aborting the batch.
func runBatch(files []string, datasets map[string][]types.PriceMovement, cfg config.Config, log zerolog.Logger, health *monitoring.HealthChecker) map[string]*optimizer.CombinedOptimizationResult {
	health.SetTotal(len(files))

	pool := optimizer.NewWorkerPool(0, len(files)).WithLogger(log)
	pool.Start()
	for _, path := range files {
		if err := pool.SubmitJob(optimizer.OptimizationJob{ID: path, Samples: datasets[path], Config: cfg}); err != nil {
			log.Error().Str("job", path).Err(err).Msg("Failed to queue optimization job")
		}
	}
	pool.Stop()

	tracker := optimizer.NewProgressTracker(len(files))
	results := make(map[string]*optimizer.CombinedOptimizationResult, len(files))
	for res := range pool.Results() {
		tracker.Increment()
		done, total, percent, _ := tracker.Progress()
		if res.Error != nil {
			health.RecordError(res.Error)
			log.Error().Str("job", res.ID).Err(res.Error).Msg("Optimization failed")
			continue
		}
		health.RecordRun()
		results[res.ID] = res.Result
		log.Info().
			Str("job", res.ID).
			Str("best", res.Result.BestMethod).
			Dur("duration", res.Duration).
			Msgf("Optimization complete (%d/%d, %.0f%%)", done, total, percent)
	}
	return results
}

func setupLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// checkHoldoutStability re-tests the winning boundaries on the chronological
// tail the optimizer never saw during training.
func checkHoldoutStability(cfg config.Config, optResult *optimizer.CombinedOptimizationResult, samples []types.PriceMovement, log zerolog.Logger) {
	ordered := types.SortSamplesByTime(samples)
	holdout := ordered[int(float64(len(ordered))*cfg.SplitRatio):]
	if len(holdout) == 0 || len(optResult.OptimalBoundaries) == 0 {
		return
	}

	result := validation.NewBoundaryValidator(cfg.StabilityLimit, cfg.DegradationLimit).
		Validate(optResult.OptimalBoundaries, holdout)

	event := log.Info()
	if result.Overfitting {
		event = log.Warn()
	}
	event.
		Float64("in_sample", result.InSamplePerformance).
		Float64("out_of_sample", result.OutOfSamplePerformance).
		Float64("degradation", result.PerformanceDegradation).
		Bool("overfitting", result.Overfitting).
		Int("holdout_samples", len(holdout)).
		Msg("Holdout boundary stability")
}

func runValidation(flags *CLIFlags, cfg config.Config, samples []types.PriceMovement, console *reporting.ConsoleReporter, log zerolog.Logger, health *monitoring.HealthChecker) *validation.CrossValidationResult {
	method := optimizer.CombinedMethod{}

	switch *flags.ValidationScheme {
	case "none":
		return nil
	case "kfold":
		var v *validation.KFoldValidator
		if cfg.Seed != 0 {
			v = validation.NewKFoldValidatorWithSeed(cfg.KFolds, cfg.Seed)
		} else {
			v = validation.NewKFoldValidator(cfg.KFolds)
		}
		result, err := v.Validate(samples, method, cfg)
		if err != nil {
			health.RecordError(err)
			log.Error().Err(err).Msg("K-fold validation failed")
			return nil
		}
		recordFoldMetrics("kfold", result)
		console.PrintValidationSummary(result)
		return result
	case "expanding":
		v := validation.NewExpandingWindowValidator(cfg.InitialWindow, cfg.StepSize)
		result, err := v.Validate(samples, method, cfg)
		if err != nil {
			health.RecordError(err)
			log.Error().Err(err).Msg("Expanding window validation failed")
			return nil
		}
		recordFoldMetrics("expanding", &result.CrossValidationResult)
		console.PrintTimeSeriesValidationSummary(result)
		return &result.CrossValidationResult
	case "rolling":
		v := validation.NewRollingWindowValidator(cfg.InitialWindow, cfg.StepSize)
		result, err := v.Validate(samples, method, cfg)
		if err != nil {
			health.RecordError(err)
			log.Error().Err(err).Msg("Rolling window validation failed")
			return nil
		}
		recordFoldMetrics("rolling", &result.CrossValidationResult)
		console.PrintTimeSeriesValidationSummary(result)
		return &result.CrossValidationResult
	}
	return nil
}

func recordFoldMetrics(scheme string, result *validation.CrossValidationResult) {
	for _, fold := range result.FoldResults {
		monitoring.RecordFold(scheme, fold.Duration)
	}
}

func runPareto(cfg config.Config, samples []types.PriceMovement, log zerolog.Logger) {
	objectives := []types.OptimizationObjective{
		{Target: types.TargetAverageMove, Weight: 1.0},
		{Target: types.TargetHighestWinRate, MinMovement: cfg.TargetMovement, Weight: 1.0},
		{Target: types.TargetLargeMoveProbability, MinMovement: cfg.TargetMovement, Weight: 1.0},
		{Target: types.TargetConsistentResults, Weight: 0.5},
	}

	solutions, err := optimizer.NewParetoOptimizer(cfg).WithLogger(log).Optimize(samples, objectives)
	if err != nil {
		log.Error().Err(err).Msg("Pareto optimization failed")
		return
	}

	log.Info().Int("solutions", len(solutions)).Msg("Pareto front computed")
	for _, s := range solutions {
		if s.Dominated {
			continue
		}
		log.Info().
			Int("rank", s.Rank).
			Float64("low", s.Boundary.RangeLow).
			Float64("high", s.Boundary.RangeHigh).
			Float64("score", s.TotalScore()).
			Msg("Non-dominated solution")
	}
}

func writeReports(flags *CLIFlags, optResult *optimizer.CombinedOptimizationResult, valResult *validation.CrossValidationResult, log zerolog.Logger) {
	if *flags.JSONOutput != "" {
		report := &reporting.JSONReport{Optimization: optResult, Validation: valResult}
		if err := reporting.WriteJSONReport(report, *flags.JSONOutput); err != nil {
			log.Error().Err(err).Msg("Failed to write JSON report")
		} else {
			log.Info().Str("path", *flags.JSONOutput).Msg("JSON report written")
		}
	}

	if *flags.ExcelOutput != "" {
		if err := reporting.NewExcelReporter().WriteWorkbook(optResult, valResult, *flags.ExcelOutput); err != nil {
			log.Error().Err(err).Msg("Failed to write Excel report")
		} else {
			log.Info().Str("path", *flags.ExcelOutput).Msg("Excel report written")
		}
	}
}
