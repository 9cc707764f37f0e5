package source

import (
	"io"

	"github.com/xuri/excelize/v2"

	"quote-tool/core/catalog"
	"quote-tool/internal/config"
	"quote-tool/internal/errors"
)

// ReadWorkbook parses an xlsx workbook into the four raw catalog tables.
// The first row of each sheet is its header. A missing sheet is a SchemaError.
func ReadWorkbook(r io.Reader, sheets config.SheetNames) (catalog.Tables, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return catalog.Tables{}, errors.Wrap(errors.TypeSchema, "catalog source is not a readable xlsx workbook", err)
	}
	defer f.Close()

	var tables catalog.Tables
	for _, entry := range []struct {
		kind  catalog.TableKind
		sheet string
		dst   **catalog.RawTable
	}{
		{catalog.TablePlans, sheets.Plans, &tables.Plans},
		{catalog.TableSeats, sheets.Seats, &tables.Seats},
		{catalog.TableProductivity, sheets.Productivity, &tables.Productivity},
		{catalog.TableHardware, sheets.Hardware, &tables.Hardware},
	} {
		t, err := readSheet(f, entry.sheet)
		if err != nil {
			return catalog.Tables{}, err.WithContext("table", string(entry.kind))
		}
		*entry.dst = t
	}
	return tables, nil
}

func readSheet(f *excelize.File, sheet string) (*catalog.RawTable, *errors.Error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.Schemaf("workbook has no sheet %q", sheet).WithContext("sheets", f.GetSheetList())
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeSchema, err, "failed to read sheet %q", sheet)
	}

	t := &catalog.RawTable{Name: sheet}
	if len(rows) > 0 {
		t.Header = rows[0]
		t.Rows = rows[1:]
	}
	return t, nil
}
