package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/httpx"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/ledger"
)

// APIHandler serves the JSON endpoints consumed by the dashboard
// charts.
type APIHandler struct {
	db *gorm.DB
}

func NewAPIHandler(db *gorm.DB) *APIHandler {
	return &APIHandler{db: db}
}

// monthlyResponse is the chart-friendly shape: one label array plus
// one series per operation type, aligned by index.
type monthlyResponse struct {
	Labels  []string `json:"labels"`
	Net     []string `json:"net"`
	Entree  []string `json:"entree"`
	Depense []string `json:"depense"`
	Vente   []string `json:"vente"`
}

// Monthly aggregates the whole journal per calendar month. Amounts go
// out as fixed two-decimal strings so the client never sees binary
// float artifacts.
func (h *APIHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	ops, err := ledger.Entries(h.db.WithContext(r.Context()), ledger.Filter{})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "query_failed", nil)
		return
	}

	buckets := ledger.MonthlyAggregate(ops)
	resp := monthlyResponse{
		Labels:  make([]string, len(buckets)),
		Net:     make([]string, len(buckets)),
		Entree:  make([]string, len(buckets)),
		Depense: make([]string, len(buckets)),
		Vente:   make([]string, len(buckets)),
	}
	for i, b := range buckets {
		resp.Labels[i] = b.Month
		resp.Net[i] = b.Net.StringFixed(2)
		resp.Entree[i] = b.Entree.StringFixed(2)
		resp.Depense[i] = b.Depense.StringFixed(2)
		resp.Vente[i] = b.Vente.StringFixed(2)
	}

	httpx.JSON(w, http.StatusOK, resp)
}
