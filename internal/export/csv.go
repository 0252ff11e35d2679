// Package export serializes journal views for download: CSV for
// spreadsheets and PDF for printable reports.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
)

// csvHeader matches the column layout the journal has always exported.
var csvHeader = []string{
	"date", "type", "label", "amount", "category",
	"designation", "quantity", "unit_price", "note",
}

// WriteCSV writes the operations as CSV, preceded by a UTF-8 BOM so
// spreadsheet applications pick the right encoding. The rows come out
// in the order given, which callers obtain from the ledger query
// (date ASC, id ASC).
func WriteCSV(w io.Writer, ops []models.Operation) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range ops {
		op := &ops[i]
		category := ""
		if op.Category != nil {
			category = op.Category.Name
		}
		quantity := ""
		if op.Quantity != nil {
			quantity = strconv.Itoa(*op.Quantity)
		}
		unitPrice := ""
		if op.UnitPrice != nil {
			unitPrice = op.UnitPrice.StringFixed(2)
		}
		record := []string{
			op.Date.Format(models.DateFormat),
			string(op.Type),
			op.Label,
			op.Amount.StringFixed(2),
			category,
			op.Designation,
			quantity,
			unitPrice,
			op.Note,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
