package reporting

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/quantsignal/boundary-optimizer/internal/optimizer"
	"github.com/quantsignal/boundary-optimizer/pkg/validation"
)

const timeRounding = time.Millisecond

// ConsoleReporter prints optimization and validation summaries as tables.
type ConsoleReporter struct{}

// NewConsoleReporter creates a new console reporter
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

// PrintOptimizationSummary prints a combined optimization run to console
func (r *ConsoleReporter) PrintOptimizationSummary(result *optimizer.CombinedOptimizationResult) {
	if result == nil {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("OPTIMIZATION SUMMARY")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"Best Method", result.BestMethod},
		{"Best Score", fmt.Sprintf("%.4f", result.BestScore)},
		{"Boundaries Found", len(result.OptimalBoundaries)},
		{"Training Samples", result.TrainingSamples},
		{"Validation Samples", result.ValidationSamples},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 20, WidthMax: 20, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, WidthMax: 35, Align: text.AlignLeft},
	})
	t.Render()

	r.printMethodTable(result)
	r.printBoundaryTable(result)
}

func (r *ConsoleReporter) printMethodTable(result *optimizer.CombinedOptimizationResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("METHOD COMPARISON")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Method", "Score", "Boundaries", "Duration", "Status"})

	for name, mr := range result.MethodResults {
		status := "ok"
		if mr.Failed {
			status = "failed"
		}
		t.AppendRow(table.Row{
			name,
			fmt.Sprintf("%.4f", mr.Score),
			len(mr.Boundaries),
			mr.ExecutionTime.Round(timeRounding).String(),
			status,
		})
	}
	t.Render()
}

func (r *ConsoleReporter) printBoundaryTable(result *optimizer.CombinedOptimizationResult) {
	if len(result.OptimalBoundaries) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("OPTIMAL BOUNDARIES")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Range", "Confidence", "Expected Move", "Hit Rate", "Samples", "Method"})

	for _, b := range result.OptimalBoundaries {
		t.AppendRow(table.Row{
			fmt.Sprintf("%.2f - %.2f", b.RangeLow, b.RangeHigh),
			fmt.Sprintf("%.3f", b.Confidence),
			fmt.Sprintf("%.3f", b.ExpectedATRMove),
			fmt.Sprintf("%.1f%%", b.HitRate*100),
			b.SampleCount,
			b.Method,
		})
	}
	t.Render()
}

// PrintValidationSummary prints cross-validation results to console
func (r *ConsoleReporter) PrintValidationSummary(result *validation.CrossValidationResult) {
	if result == nil {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("CROSS-VALIDATION SUMMARY")
	t.SetStyle(table.StyleRounded)

	overfit := "no"
	if result.Overfitting {
		overfit = "yes"
	}
	t.AppendRows([]table.Row{
		{"Folds", len(result.FoldResults)},
		{"Mean Training Score", fmt.Sprintf("%.4f", result.MeanTrainingScore)},
		{"Mean Validation Score", fmt.Sprintf("%.4f", result.MeanScore)},
		{"Score Std Dev", fmt.Sprintf("%.4f", result.ScoreStdDev)},
		{"95% CI", fmt.Sprintf("[%.4f, %.4f]", result.ConfidenceLow, result.ConfidenceHigh)},
		{"Overfitting Detected", overfit},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 22, WidthMax: 22, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, WidthMax: 30, Align: text.AlignLeft},
	})
	t.Render()

	r.printFoldTable(result.FoldResults)
}

// PrintTimeSeriesValidationSummary prints a time-series validation run,
// including its temporal diagnostics, to console
func (r *ConsoleReporter) PrintTimeSeriesValidationSummary(result *validation.TimeSeriesCrossValidationResult) {
	if result == nil {
		return
	}

	r.PrintValidationSummary(&result.CrossValidationResult)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("TEMPORAL DIAGNOSTICS")
	t.SetStyle(table.StyleRounded)

	stationary := "no"
	if result.Stationary {
		stationary = "yes"
	}
	t.AppendRows([]table.Row{
		{"Stationary", stationary},
		{"Temporal Degradation", fmt.Sprintf("%.4f", result.TemporalDegradation)},
		{"Optimal Lookback", result.OptimalLookback.String()},
	})
	t.Render()
}

func (r *ConsoleReporter) printFoldTable(folds []validation.CrossValidationFold) {
	if len(folds) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("FOLD RESULTS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Fold", "Train Score", "Val Score", "Train N", "Val N"})

	for _, f := range folds {
		t.AppendRow(table.Row{
			f.Index + 1,
			fmt.Sprintf("%.4f", f.TrainingScore),
			fmt.Sprintf("%.4f", f.ValidationScore),
			f.TrainingSampleCount,
			f.ValidationSampleCount,
		})
	}
	t.Render()
}
