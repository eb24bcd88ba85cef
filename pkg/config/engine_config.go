package config

import "fmt"

// Engine configuration constants
const (
	// Default search parameters
	DefaultTargetMovement   = 1.5
	DefaultMaxRanges        = 5
	DefaultMaxDepth         = 5
	DefaultClusterCount     = 3
	DefaultMaxIterations    = 1000
	DefaultConvergence      = 1e-6
	DefaultStagnationWindow = 50
	DefaultSplitRatio       = 0.7

	// Default validation parameters
	DefaultKFolds           = 5
	DefaultInitialWindow    = 0.3
	DefaultStepSize         = 0.1
	DefaultConfidenceLevel  = 0.95
	DefaultOverfittingGap   = 0.1
	DefaultStabilityLimit   = 0.3
	DefaultDegradationLimit = 0.5

	// Hard ceilings
	MaxRangesCeiling   = 50
	MaxDepthCeiling    = 20
	MaxClustersCeiling = 20
)

// Config holds every knob the boundary optimization engine exposes. The
// engine itself never reads files or environment; callers populate this
// struct however they like.
type Config struct {
	// Strategy toggles
	EnableDecisionTree bool
	EnableClustering   bool
	EnableGradient     bool

	// Search parameters
	TargetMovement   float64
	MaxRanges        int
	MaxDepth         int
	ClusterCount     int
	MaxIterations    int
	Convergence      float64
	StagnationWindow int
	SplitRatio       float64

	// Validation parameters
	KFolds           int
	InitialWindow    float64 // expanding/rolling initial train fraction
	StepSize         float64 // expanding/rolling step fraction
	ConfidenceLevel  float64
	OverfittingGap   float64
	StabilityLimit   float64
	DegradationLimit float64

	// Seed for k-fold shuffling and k-means initialization. Zero means
	// time-seeded (non-reproducible) randomness.
	Seed int64
}

// DefaultConfig returns a configuration with every strategy enabled and the
// documented default thresholds.
func DefaultConfig() Config {
	return Config{
		EnableDecisionTree: true,
		EnableClustering:   true,
		EnableGradient:     true,
		TargetMovement:     DefaultTargetMovement,
		MaxRanges:          DefaultMaxRanges,
		MaxDepth:           DefaultMaxDepth,
		ClusterCount:       DefaultClusterCount,
		MaxIterations:      DefaultMaxIterations,
		Convergence:        DefaultConvergence,
		StagnationWindow:   DefaultStagnationWindow,
		SplitRatio:         DefaultSplitRatio,
		KFolds:             DefaultKFolds,
		InitialWindow:      DefaultInitialWindow,
		StepSize:           DefaultStepSize,
		ConfidenceLevel:    DefaultConfidenceLevel,
		OverfittingGap:     DefaultOverfittingGap,
		StabilityLimit:     DefaultStabilityLimit,
		DegradationLimit:   DefaultDegradationLimit,
	}
}

// Validate performs basic validation on configuration parameters.
func (c Config) Validate() error {
	if c.TargetMovement <= 0 {
		return fmt.Errorf("target movement must be positive, got: %.2f", c.TargetMovement)
	}
	if c.MaxRanges <= 0 || c.MaxRanges > MaxRangesCeiling {
		return fmt.Errorf("max ranges must be between 1 and %d, got: %d", MaxRangesCeiling, c.MaxRanges)
	}
	if c.MaxDepth <= 0 || c.MaxDepth > MaxDepthCeiling {
		return fmt.Errorf("max depth must be between 1 and %d, got: %d", MaxDepthCeiling, c.MaxDepth)
	}
	if c.ClusterCount <= 0 || c.ClusterCount > MaxClustersCeiling {
		return fmt.Errorf("cluster count must be between 1 and %d, got: %d", MaxClustersCeiling, c.ClusterCount)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive, got: %d", c.MaxIterations)
	}
	if c.Convergence <= 0 {
		return fmt.Errorf("convergence threshold must be positive, got: %g", c.Convergence)
	}
	if c.StagnationWindow <= 0 {
		return fmt.Errorf("stagnation window must be positive, got: %d", c.StagnationWindow)
	}
	if c.SplitRatio <= 0 || c.SplitRatio >= 1 {
		return fmt.Errorf("split ratio must be in (0,1), got: %.2f", c.SplitRatio)
	}
	if c.KFolds <= 1 {
		return fmt.Errorf("k-fold count must be greater than 1, got: %d", c.KFolds)
	}
	if c.InitialWindow <= 0 || c.InitialWindow >= 1 {
		return fmt.Errorf("initial window fraction must be in (0,1), got: %.2f", c.InitialWindow)
	}
	if c.StepSize <= 0 || c.StepSize >= 1 {
		return fmt.Errorf("step size fraction must be in (0,1), got: %.2f", c.StepSize)
	}
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 1 {
		return fmt.Errorf("confidence level must be in (0,1), got: %.2f", c.ConfidenceLevel)
	}
	if c.StabilityLimit <= 0 {
		return fmt.Errorf("stability limit must be positive, got: %.2f", c.StabilityLimit)
	}
	if c.DegradationLimit <= 0 {
		return fmt.Errorf("degradation limit must be positive, got: %.2f", c.DegradationLimit)
	}
	return nil
}

// EnabledStrategies returns the names of the strategies the configuration
// turns on, in factory order.
func (c Config) EnabledStrategies() []string {
	var names []string
	if c.EnableDecisionTree {
		names = append(names, "DecisionTree")
	}
	if c.EnableClustering {
		names = append(names, "Clustering")
	}
	if c.EnableGradient {
		names = append(names, "GradientSearch")
	}
	return names
}
