package types

// ParetoSolution is a candidate boundary scored against every objective of a
// multi-objective search. Scores holds the weighted per-objective scores in
// objective order; RawValues keeps the unweighted metric per objective name.
// Dominance and rank are annotated after all candidates are scored; the
// solution itself is never mutated afterwards.
type ParetoSolution struct {
	Boundary  OptimalBoundary
	Scores    []float64
	RawValues map[string]float64
	Dominated bool
	Rank      int
}

// Dominates reports strict Pareto dominance: s is at least as good as other
// in every objective and strictly better in at least one.
func (s ParetoSolution) Dominates(other ParetoSolution) bool {
	if len(s.Scores) != len(other.Scores) || len(s.Scores) == 0 {
		return false
	}
	strictlyBetter := false
	for i := range s.Scores {
		if s.Scores[i] < other.Scores[i] {
			return false
		}
		if s.Scores[i] > other.Scores[i] {
			strictlyBetter = true
		}
	}
	return strictlyBetter
}

// TotalScore sums the weighted per-objective scores.
func (s ParetoSolution) TotalScore() float64 {
	total := 0.0
	for _, v := range s.Scores {
		total += v
	}
	return total
}
