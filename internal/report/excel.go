// Package report renders run results as an xlsx workbook with one sheet per
// region plus a summary sheet.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/DJBrause/MarketSpreadSniper/internal/domain"
)

// maxSheetName is the xlsx format's sheet-name length limit.
const maxSheetName = 31

var header = []interface{}{"TypeID", "Name", "SellPrice", "BuyPrice", "Spread"}

// Writer renders RunReports as xlsx files under a fixed output directory.
type Writer struct {
	outputDir string
	logger    *slog.Logger
}

// NewWriter creates a Writer that saves workbooks under outputDir. The
// directory is created on first write.
func NewWriter(outputDir string, logger *slog.Logger) *Writer {
	return &Writer{
		outputDir: outputDir,
		logger:    logger.With(slog.String("component", "report")),
	}
}

// Write renders the report and returns the path of the saved workbook. The
// file name embeds the run's start time so repeated runs do not clobber each
// other. Failed regions get no sheet; they are listed on the summary sheet.
func (w *Writer) Write(report *domain.RunReport) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeSummary(f, report); err != nil {
		return "", err
	}

	for _, name := range report.RegionNames() {
		if err := writeRegionSheet(f, name, report.Results[name]); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("report: create output dir: %w", err)
	}

	path := filepath.Join(w.outputDir, fmt.Sprintf("spread-%s.xlsx", report.StartedAt.Format("20060102-150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("report: save workbook: %w", err)
	}

	w.logger.Info("report written",
		slog.String("path", path),
		slog.Int("regions", len(report.Results)),
		slog.Int("rows", report.TotalRows()),
	)

	return path, nil
}

// writeSummary renames the default sheet to Summary and fills in the run
// metadata and per-region outcome.
func (w *Writer) writeSummary(f *excelize.File, report *domain.RunReport) error {
	const sheet = "Summary"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("report: rename summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Run", report.RunID},
		{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
		{"Finished", report.FinishedAt.Format("2006-01-02 15:04:05 MST")},
		{},
		{"Region", "Rows", "Error"},
	}
	for _, name := range report.RegionNames() {
		rows = append(rows, []interface{}{name, len(report.Results[name]), ""})
	}
	for _, name := range report.FailedNames() {
		rows = append(rows, []interface{}{name, 0, report.Failed[name].Error()})
	}

	for i, row := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return fmt.Errorf("report: write summary row %d: %w", i+1, err)
		}
	}
	return nil
}

// writeRegionSheet adds one sheet holding a region's spread rows.
func writeRegionSheet(f *excelize.File, region string, rows []domain.SpreadRow) error {
	sheet := sheetName(region)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("report: new sheet %s: %w", sheet, err)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("report: write header: %w", err)
	}
	for i, row := range rows {
		cells := []interface{}{row.TypeID, row.Name, row.SellPrice, row.BuyPrice, row.Spread}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return fmt.Errorf("report: write row %d of %s: %w", i+2, sheet, err)
		}
	}
	return nil
}

// sheetName sanitizes a region name into a legal xlsx sheet name.
func sheetName(region string) string {
	s := strings.NewReplacer(":", "-", "\\", "-", "/", "-", "?", "-", "*", "-", "[", "(", "]", ")").Replace(region)
	if len(s) > maxSheetName {
		s = s[:maxSheetName]
	}
	return s
}
