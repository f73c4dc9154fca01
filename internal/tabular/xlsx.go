package tabular

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/docsift/docsift/internal/flatten"
)

// sheetName is the single worksheet all rows land on.
const sheetName = "Sheet1"

// WriteXLSX writes records to a single-sheet workbook at path: a header row
// followed by one row per record, columns in header order, missing fields
// blank.
func WriteXLSX(path string, headers []string, records []*flatten.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, rec := range records {
		row := make([]any, len(headers))
		for j, h := range headers {
			v, _ := rec.Get(h)
			row[j] = v
		}

		// Row 1 is the header, data starts at row 2.
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
