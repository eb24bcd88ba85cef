package types

// ObjectiveTarget selects the metric an optimization maximizes.
type ObjectiveTarget int

const (
	// TargetAverageMove maximizes mean |movement| inside the range (default).
	TargetAverageMove ObjectiveTarget = iota
	// TargetHighestWinRate maximizes the fraction of positive movements.
	TargetHighestWinRate
	// TargetLargeMoveProbability maximizes the fraction of samples whose
	// |movement| meets MinMovement.
	TargetLargeMoveProbability
	// TargetConsistentResults maximizes 1/(1+stddev of |movement|).
	TargetConsistentResults
)

func (t ObjectiveTarget) String() string {
	switch t {
	case TargetHighestWinRate:
		return "HighestWinRate"
	case TargetLargeMoveProbability:
		return "LargeMoveProbability"
	case TargetConsistentResults:
		return "ConsistentResults"
	default:
		return "AverageMove"
	}
}

// ValueRange is a [Low, High] interval over measurement values.
type ValueRange struct {
	Low  float64
	High float64
}

// Contains reports whether value falls inside the range.
func (r ValueRange) Contains(value float64) bool {
	return value >= r.Low && value <= r.High
}

// OptimizationObjective describes one metric to optimize for, the threshold
// it uses, where the search starts, and its weight when several objectives
// are combined.
type OptimizationObjective struct {
	Target       ObjectiveTarget
	MinMovement  float64
	InitialRange ValueRange
	Weight       float64
}

// OptimalRange is the outcome of a gradient search: the range it settled on
// and how it got there.
type OptimalRange struct {
	Range          ValueRange
	ObjectiveValue float64
	Iterations     int
	Converged      bool
	FinalStepSize  float64
	Threshold      float64
}
