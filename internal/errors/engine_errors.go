package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the classes of failure the engine can report.
type ErrorCategory string

const (
	// ErrorCategoryInvalidArgument covers bad caller input: non-positive
	// counts, fractions outside (0,1), cluster counts exceeding data size.
	// Raised before any computation runs.
	ErrorCategoryInvalidArgument ErrorCategory = "INVALID_ARGUMENT"

	// ErrorCategoryInsufficientData covers datasets below a strategy's
	// minimum sample requirement.
	ErrorCategoryInsufficientData ErrorCategory = "INSUFFICIENT_DATA"

	// ErrorCategoryNumerical covers NaN/infinite objective values,
	// zero-variance data and other math failures.
	ErrorCategoryNumerical ErrorCategory = "NUMERICAL"

	// ErrorCategoryNonConvergence covers iterative searches that stagnate
	// or exhaust their iteration budget.
	ErrorCategoryNonConvergence ErrorCategory = "NON_CONVERGENCE"
)

// NumericalReason narrows a numerical failure to its diagnosed cause.
type NumericalReason string

const (
	NumericalReasonNaN          NumericalReason = "NAN"
	NumericalReasonInfinity     NumericalReason = "INFINITY"
	NumericalReasonZeroVariance NumericalReason = "ZERO_VARIANCE"
	NumericalReasonOther        NumericalReason = "OTHER"
)

// EngineError is a categorized error with context about which component and
// operation produced it.
type EngineError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// WithContext attaches a diagnostic key/value to the error.
func (e *EngineError) WithContext(key string, value interface{}) *EngineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewEngineError creates a new categorized engine error.
func NewEngineError(category ErrorCategory, component, operation, message string) *EngineError {
	return &EngineError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with engine error context.
func WrapError(err error, category ErrorCategory, component, operation string) *EngineError {
	if err == nil {
		return nil
	}
	return &EngineError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// NewInvalidArgumentError reports bad caller input.
func NewInvalidArgumentError(component, operation, message string) *EngineError {
	return NewEngineError(ErrorCategoryInvalidArgument, component, operation, message)
}

// NewInsufficientDataError reports a dataset below the minimum sample count.
func NewInsufficientDataError(component, operation string, got, want int) *EngineError {
	return NewEngineError(ErrorCategoryInsufficientData, component, operation,
		fmt.Sprintf("need at least %d samples, got %d", want, got)).
		WithContext("samples", got).
		WithContext("required", want)
}

// NewNumericalError reports a math failure with its diagnosed reason and the
// offending value.
func NewNumericalError(component, operation string, reason NumericalReason, value float64) *EngineError {
	return NewEngineError(ErrorCategoryNumerical, component, operation,
		fmt.Sprintf("numerical failure (%s)", reason)).
		WithContext("reason", reason).
		WithContext("value", value)
}

// NonConvergenceError is a typed non-convergence failure carrying the search
// diagnostics callers need to tell stagnation from budget exhaustion.
type NonConvergenceError struct {
	EngineError
	Iterations         int
	LastObjectiveValue float64
	ImprovementHistory []float64
	Stagnated          bool
}

// NewNonConvergenceError reports an iterative search that did not converge.
func NewNonConvergenceError(component, operation string, iterations int, lastValue float64, history []float64, stagnated bool) *NonConvergenceError {
	msg := fmt.Sprintf("no convergence after %d iterations (last objective %.6f)", iterations, lastValue)
	if stagnated {
		msg = fmt.Sprintf("stagnated after %d iterations (last objective %.6f)", iterations, lastValue)
	}
	err := &NonConvergenceError{
		EngineError: EngineError{
			Category:  ErrorCategoryNonConvergence,
			Component: component,
			Operation: operation,
			Message:   msg,
			Context:   make(map[string]interface{}),
		},
		Iterations:         iterations,
		LastObjectiveValue: lastValue,
		ImprovementHistory: history,
		Stagnated:          stagnated,
	}
	err.WithContext("iterations", iterations)
	err.WithContext("last_objective", lastValue)
	err.WithContext("history_len", len(history))
	return err
}

// CategoryOf returns the category of err when it is an engine error, or the
// empty string otherwise.
func CategoryOf(err error) ErrorCategory {
	var convErr *NonConvergenceError
	if errors.As(err, &convErr) {
		return convErr.Category
	}
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Category
	}
	return ""
}

// IsInvalidArgument reports whether err is an invalid-argument failure.
func IsInvalidArgument(err error) bool {
	return CategoryOf(err) == ErrorCategoryInvalidArgument
}

// IsInsufficientData reports whether err is an insufficient-data failure.
func IsInsufficientData(err error) bool {
	return CategoryOf(err) == ErrorCategoryInsufficientData
}

// IsNumerical reports whether err is a numerical failure.
func IsNumerical(err error) bool {
	return CategoryOf(err) == ErrorCategoryNumerical
}

// IsNonConvergence reports whether err is a non-convergence failure.
func IsNonConvergence(err error) bool {
	return CategoryOf(err) == ErrorCategoryNonConvergence
}
