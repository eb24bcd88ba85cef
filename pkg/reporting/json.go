package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/quantsignal/boundary-optimizer/internal/optimizer"
	"github.com/quantsignal/boundary-optimizer/pkg/validation"
)

// JSONReport is the serialized form of a full optimization run
type JSONReport struct {
	GeneratedAt  time.Time                                   `json:"generated_at"`
	Optimization *optimizer.CombinedOptimizationResult       `json:"optimization,omitempty"`
	Validation   *validation.CrossValidationResult           `json:"validation,omitempty"`
	TimeSeries   *validation.TimeSeriesCrossValidationResult `json:"time_series_validation,omitempty"`
}

// WriteJSONReport writes a combined report to a JSON file, creating
// parent directories as needed
func WriteJSONReport(report *JSONReport, path string) error {
	if report == nil {
		return fmt.Errorf("nil report")
	}
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now()
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

// FormatJSONReport returns the report as indented JSON bytes
func FormatJSONReport(report *JSONReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
