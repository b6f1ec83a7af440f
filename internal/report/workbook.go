package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/models"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

const (
	fontSize    = 14
	lastColumn  = "D"
	defaultName = "Sheet1"
)

// Headers is the column header row of the output sheet.
var Headers = []string{"Teacher", "Subject", "Time Slot", "Room"}

// WorkbookWriter replaces the contents of the output workbook with a schedule.
type WorkbookWriter struct {
	sheet  string
	logger *zap.Logger
}

// NewWorkbookWriter builds a writer; sheet titles workbooks created from scratch.
func NewWorkbookWriter(sheet string, logger *zap.Logger) *WorkbookWriter {
	if sheet == "" {
		sheet = defaultName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkbookWriter{sheet: sheet, logger: logger}
}

// Write opens the workbook at path and clears its active sheet, or creates a new workbook when
// none exists, then writes the cost row, the header row and one row per assignment.
func (w *WorkbookWriter) Write(path string, schedule models.Schedule) error {
	f, sheet, err := w.open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	rows := make([][]any, 0, len(schedule.Assignments)+2)
	rows = append(rows, []any{"Cost", schedule.TotalCost})
	rows = append(rows, []any{Headers[0], Headers[1], Headers[2], Headers[3]})
	for _, a := range schedule.Assignments {
		rows = append(rows, []any{a.Teacher, a.Subject, a.TimeSlot, a.Room})
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return appErrors.WrapAs(appErrors.ErrOutput, err, "")
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return appErrors.WrapAs(appErrors.ErrOutput, err, fmt.Sprintf("failed to write row %d", i+1))
		}
	}

	if err := w.applyStyles(f, sheet, len(schedule.Assignments)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return appErrors.WrapAs(appErrors.ErrOutput, err, fmt.Sprintf("failed to save output workbook %q", path))
	}
	w.logger.Info("output workbook written",
		zap.String("file", path),
		zap.String("sheet", sheet),
		zap.Int("assignments", len(schedule.Assignments)),
	)
	return nil
}

func (w *WorkbookWriter) open(path string) (*excelize.File, string, error) {
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", appErrors.WrapAs(appErrors.ErrOutput, err, "failed to stat output workbook")
		}
		f := excelize.NewFile()
		if err := f.SetSheetName(defaultName, w.sheet); err != nil {
			_ = f.Close()
			return nil, "", appErrors.WrapAs(appErrors.ErrOutput, err, "failed to title output sheet")
		}
		return f, w.sheet, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", appErrors.WrapAs(appErrors.ErrOutput, err, fmt.Sprintf("failed to open output workbook %q", path))
	}
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	existing, err := f.GetRows(sheet)
	if err != nil {
		_ = f.Close()
		return nil, "", appErrors.WrapAs(appErrors.ErrOutput, err, "failed to read output sheet")
	}
	for row := len(existing); row >= 1; row-- {
		if err := f.RemoveRow(sheet, row); err != nil {
			_ = f.Close()
			return nil, "", appErrors.WrapAs(appErrors.ErrOutput, err, "failed to clear output sheet")
		}
	}
	w.logger.Debug("cleared existing output sheet", zap.String("sheet", sheet), zap.Int("rows", len(existing)))
	return f, sheet, nil
}

// applyStyles makes the first two rows bold and sizes the regular-font range to the written assignments.
func (w *WorkbookWriter) applyStyles(f *excelize.File, sheet string, assignments int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: fontSize, Bold: true}})
	if err != nil {
		return appErrors.WrapAs(appErrors.ErrOutput, err, "failed to create header style")
	}
	if err := f.SetCellStyle(sheet, "A1", lastColumn+"2", bold); err != nil {
		return appErrors.WrapAs(appErrors.ErrOutput, err, "failed to style header rows")
	}
	if assignments == 0 {
		return nil
	}
	regular, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: fontSize}})
	if err != nil {
		return appErrors.WrapAs(appErrors.ErrOutput, err, "failed to create body style")
	}
	last := fmt.Sprintf("%s%d", lastColumn, assignments+2)
	if err := f.SetCellStyle(sheet, "A3", last, regular); err != nil {
		return appErrors.WrapAs(appErrors.ErrOutput, err, "failed to style assignment rows")
	}
	return nil
}
