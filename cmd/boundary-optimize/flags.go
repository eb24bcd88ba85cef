package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/quantsignal/boundary-optimizer/pkg/config"
)

// CLIFlags holds all command-line flag values
type CLIFlags struct {
	DataFile *string

	TargetMovement *float64
	MaxRanges      *int
	MaxDepth       *int
	ClusterCount   *int
	Seed           *int64

	NoDecisionTree *bool
	NoClustering   *bool
	NoGradient     *bool

	ValidationScheme *string
	KFolds           *int
	InitialWindow    *float64
	StepSize         *float64

	Pareto *bool

	JSONOutput  *string
	ExcelOutput *string

	MetricsPort *int
	Verbose     *bool
}

// ParseFlags parses command-line arguments into CLIFlags
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{
		DataFile: flag.String("data", "", "CSV data file(s) (timestamp,value,movement); comma-separated paths run as a batch"),

		TargetMovement: flag.Float64("target", config.DefaultTargetMovement, "Target movement an indicator reading should predict"),
		MaxRanges:      flag.Int("max-ranges", config.DefaultMaxRanges, "Maximum number of boundaries to report"),
		MaxDepth:       flag.Int("max-depth", config.DefaultMaxDepth, "Maximum decision tree depth"),
		ClusterCount:   flag.Int("clusters", config.DefaultClusterCount, "Number of k-means clusters"),
		Seed:           flag.Int64("seed", 0, "Random seed for reproducible runs (0 = time-seeded)"),

		NoDecisionTree: flag.Bool("no-tree", false, "Disable the decision tree strategy"),
		NoClustering:   flag.Bool("no-clustering", false, "Disable the clustering strategy"),
		NoGradient:     flag.Bool("no-gradient", false, "Disable the gradient search strategy"),

		ValidationScheme: flag.String("validation", "kfold", "Cross-validation scheme (kfold, expanding, rolling, none)"),
		KFolds:           flag.Int("folds", config.DefaultKFolds, "Number of folds for k-fold validation"),
		InitialWindow:    flag.Float64("initial-window", config.DefaultInitialWindow, "Initial window fraction for expanding/rolling validation"),
		StepSize:         flag.Float64("step", config.DefaultStepSize, "Step fraction for expanding/rolling validation"),

		Pareto: flag.Bool("pareto", false, "Run multi-objective Pareto optimization as well"),

		JSONOutput:  flag.String("json", "", "Write a JSON report to this path"),
		ExcelOutput: flag.String("excel", "", "Write an Excel workbook to this path"),

		MetricsPort: flag.Int("metrics-port", 0, "Serve /health and /metrics on this port (0 = disabled)"),
		Verbose:     flag.Bool("verbose", false, "Enable debug logging"),
	}

	flag.Parse()
	return flags
}

// DataFiles splits the -data flag into individual file paths.
func (f *CLIFlags) DataFiles() []string {
	var files []string
	for _, part := range strings.Split(*f.DataFile, ",") {
		if part = strings.TrimSpace(part); part != "" {
			files = append(files, part)
		}
	}
	return files
}

// Validate checks flag combinations before the run starts
func (f *CLIFlags) Validate() error {
	if len(f.DataFiles()) == 0 {
		return fmt.Errorf("data file is required (use -data)")
	}
	switch *f.ValidationScheme {
	case "kfold", "expanding", "rolling", "none":
	default:
		return fmt.Errorf("unknown validation scheme %q (use kfold, expanding, rolling or none)", *f.ValidationScheme)
	}
	if *f.NoDecisionTree && *f.NoClustering && *f.NoGradient {
		return fmt.Errorf("at least one strategy must remain enabled")
	}
	return nil
}

// ToConfig builds an engine configuration from the parsed flags
func (f *CLIFlags) ToConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.TargetMovement = *f.TargetMovement
	cfg.MaxRanges = *f.MaxRanges
	cfg.MaxDepth = *f.MaxDepth
	cfg.ClusterCount = *f.ClusterCount
	cfg.Seed = *f.Seed
	cfg.EnableDecisionTree = !*f.NoDecisionTree
	cfg.EnableClustering = !*f.NoClustering
	cfg.EnableGradient = !*f.NoGradient
	cfg.KFolds = *f.KFolds
	cfg.InitialWindow = *f.InitialWindow
	cfg.StepSize = *f.StepSize
	return cfg
}
