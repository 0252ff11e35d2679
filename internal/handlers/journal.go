package handlers

import (
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/ledger"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/services"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/view"
)

// JournalHandler serves the main chronological view with its filters,
// running balance column and period summary.
type JournalHandler struct {
	db   *gorm.DB
	cats *services.CategoryService
}

func NewJournalHandler(db *gorm.DB, cats *services.CategoryService) *JournalHandler {
	return &JournalHandler{db: db, cats: cats}
}

// parseFilter reads the shared filter query parameters. Unknown type
// values and unparseable dates are ignored rather than rejected; the
// journal is a read view and should always render.
func parseFilter(r *http.Request) ledger.Filter {
	var f ledger.Filter
	if t := models.OperationType(r.URL.Query().Get("type")); t.Valid() {
		f.Type = t
	}
	if s := r.URL.Query().Get("start"); s != "" {
		if d, err := time.Parse(models.DateFormat, s); err == nil {
			f.Start = &d
		}
	}
	if s := r.URL.Query().Get("end"); s != "" {
		if d, err := time.Parse(models.DateFormat, s); err == nil {
			f.End = &d
		}
	}
	if s := r.URL.Query().Get("category"); s != "" {
		if id, err := strconv.ParseUint(s, 10, 32); err == nil {
			f.CategoryID = uint(id)
		}
	}
	return f
}

// journalRow pairs an operation with its running balance for the
// template.
type journalRow struct {
	Op      models.Operation
	Balance string
}

func (h *JournalHandler) Journal(w http.ResponseWriter, r *http.Request) {
	f := parseFilter(r)
	ops, err := ledger.Entries(h.db.WithContext(r.Context()), f)
	if err != nil {
		http.Error(w, "failed to load journal", http.StatusInternalServerError)
		return
	}

	summary := ledger.Summarize(ops)
	running := ledger.RunningBalance(ops)
	rows := make([]journalRow, len(ops))
	for i := range ops {
		rows[i] = journalRow{Op: ops[i], Balance: running[i].StringFixed(2)}
	}

	cats, err := h.cats.List(r.Context())
	if err != nil {
		http.Error(w, "failed to load categories", http.StatusInternalServerError)
		return
	}

	view.Render(w, r, "journal.html", map[string]any{
		"Rows":       rows,
		"Summary":    summary,
		"Categories": cats,
		"Type":       string(f.Type),
		"Start":      r.URL.Query().Get("start"),
		"End":        r.URL.Query().Get("end"),
		"CategoryID": f.CategoryID,
		"Notice":     r.URL.Query().Get("notice"),
	})
}

// Reports renders the all-time summary page.
func (h *JournalHandler) Reports(w http.ResponseWriter, r *http.Request) {
	ops, err := ledger.Entries(h.db.WithContext(r.Context()), ledger.Filter{})
	if err != nil {
		http.Error(w, "failed to load report", http.StatusInternalServerError)
		return
	}
	view.Render(w, r, "rapports.html", map[string]any{
		"Summary": ledger.Summarize(ops),
	})
}

// Dashboard renders the charts page; the data arrives asynchronously
// from /api/monthly.
func (h *JournalHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "dashboard.html", nil)
}
