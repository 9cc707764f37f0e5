package export

import (
	"encoding/csv"
	"io"

	"quote-tool/core/quote"
	"quote-tool/internal/errors"
)

// WriteCSV writes the line items under the standard columns, followed by a
// grand total row. Text cells are sanitized; money cells are written as shown.
func WriteCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)

	records := [][]string{quote.Columns}
	for _, item := range doc.Quote.Items {
		cells := item.Cells()
		cells[0] = sanitizeCell(cells[0])
		cells[1] = sanitizeCell(cells[1])
		records = append(records, cells)
	}
	records = append(records, []string{"Total", "", "", "", quote.FormatMoney(doc.Quote.Totals.Grand)})

	if err := cw.WriteAll(records); err != nil {
		return errors.Export("failed to write CSV", err)
	}
	return nil
}
