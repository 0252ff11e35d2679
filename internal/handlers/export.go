package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/export"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/ledger"
)

// ExportHandler serves the CSV and PDF downloads. Both respect the
// same filter parameters as the journal view.
type ExportHandler struct {
	db *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{db: db}
}

func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	ops, err := ledger.Entries(h.db.WithContext(r.Context()), parseFilter(r))
	if err != nil {
		http.Error(w, "failed to load journal", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="journal.csv"`)
	if err := export.WriteCSV(w, ops); err != nil {
		// headers are already out; nothing useful left to send
		return
	}
}

func (h *ExportHandler) PDF(w http.ResponseWriter, r *http.Request) {
	ops, err := ledger.Entries(h.db.WithContext(r.Context()), parseFilter(r))
	if err != nil {
		http.Error(w, "failed to load journal", http.StatusInternalServerError)
		return
	}
	pdf, err := export.ReportPDF("Journal de caisse", ledger.Summarize(ops), ledger.MonthlyAggregate(ops))
	if err != nil {
		http.Error(w, "failed to render pdf", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="journal.pdf"`)
	w.Write(pdf)
}
