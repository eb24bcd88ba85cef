package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/quantsignal/boundary-optimizer/internal/optimizer"
	"github.com/quantsignal/boundary-optimizer/pkg/validation"
)

// ExcelReporter writes optimization results to an Excel workbook
type ExcelReporter struct{}

// ExcelStyles holds the style IDs used across sheets
type ExcelStyles struct {
	HeaderStyle  int
	NumberStyle  int
	PercentStyle int
}

// NewExcelReporter creates a new Excel reporter
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// WriteWorkbook writes the optimization and validation results to an Excel
// file with Boundaries, Methods and Folds sheets. The validation result may
// be nil, in which case the Folds sheet is omitted.
func (r *ExcelReporter) WriteWorkbook(opt *optimizer.CombinedOptimizationResult, val *validation.CrossValidationResult, path string) error {
	if opt == nil {
		return fmt.Errorf("nil optimization result")
	}

	// Ensure directory exists before creating file
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const boundariesSheet = "Boundaries"
	const methodsSheet = "Methods"
	const foldsSheet = "Folds"

	fx.SetSheetName(fx.GetSheetName(0), boundariesSheet)
	fx.NewSheet(methodsSheet)

	styles, err := r.createStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeBoundariesSheet(fx, boundariesSheet, opt, styles); err != nil {
		return err
	}
	if err := r.writeMethodsSheet(fx, methodsSheet, opt, styles); err != nil {
		return err
	}
	if val != nil {
		fx.NewSheet(foldsSheet)
		if err := r.writeFoldsSheet(fx, foldsSheet, val, styles); err != nil {
			return err
		}
	}

	return fx.SaveAs(path)
}

func (r *ExcelReporter) createStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Size:  11,
			Color: "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.NumberStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 4, // #,##0.00
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.PercentStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 10, // 0.00%
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return styles, err
	}

	return styles, nil
}

func (r *ExcelReporter) writeBoundariesSheet(fx *excelize.File, sheet string, opt *optimizer.CombinedOptimizationResult, styles ExcelStyles) error {
	headers := []string{"Range Low", "Range High", "Confidence", "Expected Move", "Hit Rate", "Prob Up", "Samples", "Method"}
	if err := r.writeHeader(fx, sheet, headers, styles); err != nil {
		return err
	}

	for i, b := range opt.OptimalBoundaries {
		row := i + 2
		cell := fmt.Sprintf("A%d", row)
		values := []interface{}{
			b.RangeLow, b.RangeHigh, b.Confidence, b.ExpectedATRMove,
			b.HitRate, b.ProbabilityUp, b.SampleCount, b.Method,
		}
		if err := fx.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		fx.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), styles.NumberStyle)
		fx.SetCellStyle(sheet, fmt.Sprintf("E%d", row), fmt.Sprintf("F%d", row), styles.PercentStyle)
	}

	fx.SetColWidth(sheet, "A", "F", 14)
	fx.SetColWidth(sheet, "G", "G", 10)
	fx.SetColWidth(sheet, "H", "H", 16)
	return nil
}

func (r *ExcelReporter) writeMethodsSheet(fx *excelize.File, sheet string, opt *optimizer.CombinedOptimizationResult, styles ExcelStyles) error {
	headers := []string{"Method", "Score", "Boundaries", "Duration", "Failed", "Diagnostics"}
	if err := r.writeHeader(fx, sheet, headers, styles); err != nil {
		return err
	}

	row := 2
	for name, mr := range opt.MethodResults {
		cell := fmt.Sprintf("A%d", row)
		diag := ""
		if len(mr.Diagnostics) > 0 {
			diag = mr.Diagnostics[0]
		}
		values := []interface{}{
			name, mr.Score, len(mr.Boundaries),
			mr.ExecutionTime.Round(timeRounding).String(), mr.Failed, diag,
		}
		if err := fx.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		fx.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), styles.NumberStyle)
		row++
	}

	fx.SetColWidth(sheet, "A", "A", 18)
	fx.SetColWidth(sheet, "B", "E", 12)
	fx.SetColWidth(sheet, "F", "F", 40)
	return nil
}

func (r *ExcelReporter) writeFoldsSheet(fx *excelize.File, sheet string, val *validation.CrossValidationResult, styles ExcelStyles) error {
	headers := []string{"Fold", "Training Score", "Validation Score", "Train Samples", "Val Samples", "Period Start", "Period End"}
	if err := r.writeHeader(fx, sheet, headers, styles); err != nil {
		return err
	}

	for i, f := range val.FoldResults {
		row := i + 2
		cell := fmt.Sprintf("A%d", row)

		periodStart, periodEnd := "", ""
		if !f.PeriodStart.IsZero() {
			periodStart = f.PeriodStart.Format("2006-01-02 15:04")
		}
		if !f.PeriodEnd.IsZero() {
			periodEnd = f.PeriodEnd.Format("2006-01-02 15:04")
		}

		values := []interface{}{
			f.Index + 1, f.TrainingScore, f.ValidationScore,
			f.TrainingSampleCount, f.ValidationSampleCount,
			periodStart, periodEnd,
		}
		if err := fx.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		fx.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("C%d", row), styles.NumberStyle)
	}

	// Summary row below the folds
	summaryRow := len(val.FoldResults) + 3
	summary := fmt.Sprintf("Mean: %.4f | StdDev: %.4f | CI: [%.4f, %.4f] | Overfitting: %v",
		val.MeanScore, val.ScoreStdDev, val.ConfidenceLow, val.ConfidenceHigh, val.Overfitting)
	fx.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), summary)

	fx.SetColWidth(sheet, "A", "A", 8)
	fx.SetColWidth(sheet, "B", "E", 15)
	fx.SetColWidth(sheet, "F", "G", 18)
	return nil
}

func (r *ExcelReporter) writeHeader(fx *excelize.File, sheet string, headers []string, styles ExcelStyles) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}
	return nil
}
