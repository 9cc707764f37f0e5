package testhelpers

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"quote-tool/core/catalog"
)

// WorkbookBytes renders raw tables as an xlsx workbook, one sheet per table.
// Nil tables are left out so tests can exercise missing sheets.
func WorkbookBytes(t catalog.Tables) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for _, table := range []*catalog.RawTable{t.Plans, t.Seats, t.Productivity, t.Hardware} {
		if table == nil {
			continue
		}
		if first {
			if err := f.SetSheetName("Sheet1", table.Name); err != nil {
				return nil, err
			}
			first = false
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return nil, err
		}

		if err := f.SetSheetRow(table.Name, "A1", &table.Header); err != nil {
			return nil, err
		}
		for i, row := range table.Rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(table.Name, cell, &row); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
