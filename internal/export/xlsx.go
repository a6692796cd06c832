package export

import (
	"time"

	"github.com/aliceinword/legal-time-tracker/internal/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet in spreadsheet exports.
const SheetName = "Time Entries"

// BuildXLSX serializes entries to a single-sheet spreadsheet with the same
// columns and fallback rules as the CSV export.
func BuildXLSX(entries []models.Entry, defaultTimekeeper string, now time.Time) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetName)

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, "", err
	}

	for i, e := range entries {
		cells := entryRow(e, defaultTimekeeper)
		row := make([]interface{}, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, "", err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), Filename("xlsx", now), nil
}
