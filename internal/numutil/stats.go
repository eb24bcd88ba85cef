package numutil

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Mean calculates the arithmetic mean of a slice of float64 values.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the sample variance of a slice of float64 values.
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// LinearSlope fits y = a + b*x by least squares over equally indexed points
// (x = 0..n-1) and returns the slope b. Returns 0 for fewer than two points.
func LinearSlope(y []float64) float64 {
	if len(y) < 2 {
		return 0
	}
	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}
	_, slope := stat.LinearRegression(x, y, nil, false)
	return slope
}

// TCritical returns the two-sided Student's-t critical value for the given
// confidence level (e.g. 0.95) and degrees of freedom.
func TCritical(confidence float64, df int) float64 {
	if df < 1 {
		return 0
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return dist.Quantile(1 - (1-confidence)/2)
}

// ConfidenceInterval returns the half-width of the t-based confidence
// interval around the mean of n observations with the given sample standard
// deviation.
func ConfidenceInterval(stdDev float64, n int, confidence float64) float64 {
	if n < 2 {
		return 0
	}
	return TCritical(confidence, n-1) * stdDev / math.Sqrt(float64(n))
}

// IsFinite reports whether v is a usable number (not NaN, not infinite).
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
