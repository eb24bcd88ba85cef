package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/quantsignal/boundary-optimizer/pkg/types"
)

// CSVProvider loads precomputed (timestamp, measurement value, movement)
// samples from a CSV file. Upstream correlation computation produces these
// files; the engine only reads them.
type CSVProvider struct{}

// NewCSVProvider creates a new CSV sample provider.
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{}
}

// GetName returns the name of the data provider.
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadSamples reads samples from a CSV file with columns
// timestamp,value,movement. A header row is tolerated. Timestamps may be
// RFC3339, "2006-01-02 15:04:05", "2006-01-02", or unix seconds.
func (p *CSVProvider) LoadSamples(filename string) ([]types.PriceMovement, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var samples []types.PriceMovement
	lineNum := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum+1, err)
		}
		lineNum++

		if len(record) < 3 {
			return nil, fmt.Errorf("line %d: expected 3 columns (timestamp,value,movement), got %d", lineNum, len(record))
		}

		ts, err := parseTimestamp(record[0])
		if err != nil {
			if lineNum == 1 {
				continue // Header row
			}
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		value, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid value %q", lineNum, record[1])
		}
		movement, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid movement %q", lineNum, record[2])
		}

		samples = append(samples, types.PriceMovement{
			Value:     value,
			Movement:  movement,
			Timestamp: ts,
		})
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("no valid samples found in %s", filename)
	}
	return samples, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

// LoadSamples is a convenience function using the default provider.
func LoadSamples(filename string) ([]types.PriceMovement, error) {
	return NewCSVProvider().LoadSamples(filename)
}
