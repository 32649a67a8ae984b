package storage

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"airbnb-etl/models"
)

const defaultSheet = "Sheet1"

// maxSheetName is the longest sheet name a workbook accepts.
const maxSheetName = 31

// ExcelWriter collects frames as sheets of one workbook, saved on Close.
type ExcelWriter struct {
	path   string
	file   *excelize.File
	sheets int
}

// NewExcelWriter prepares a workbook that will be saved at path.
func NewExcelWriter(path string) (*ExcelWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("excel: create output dir: %w", err)
	}
	return &ExcelWriter{path: path, file: excelize.NewFile()}, nil
}

// WriteFrame adds the frame as a new sheet, header in the first row.
func (x *ExcelWriter) WriteFrame(name string, f *models.Frame) error {
	sheet := sheetName(name)
	if x.sheets == 0 {
		if err := x.file.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("excel: rename sheet: %w", err)
		}
	} else if _, err := x.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("excel: new sheet %q: %w", sheet, err)
	}
	x.sheets++

	header := make([]any, len(f.Columns))
	for i, c := range f.Columns {
		header[i] = c
	}
	if err := x.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("excel: write header: %w", err)
	}
	for i, r := range f.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := make([]any, len(r))
		for j, v := range r {
			row[j] = excelValue(v)
		}
		if err := x.file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("excel: write row %d: %w", i+1, err)
		}
	}
	return nil
}

// Close saves the workbook and releases it.
func (x *ExcelWriter) Close() error {
	defer x.file.Close()
	if x.sheets == 0 {
		return nil
	}
	if err := x.file.SaveAs(x.path); err != nil {
		return fmt.Errorf("excel: save %q: %w", x.path, err)
	}
	return nil
}

// excelValue keeps numbers numeric and renders everything else as text.
func excelValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return t
	case int, int64, string:
		return t
	case time.Time:
		return t.Format(models.ReviewDateLayout)
	}
	return models.FormatValue(v)
}

func sheetName(name string) string {
	ext := filepath.Ext(name)
	name = name[:len(name)-len(ext)]
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}
