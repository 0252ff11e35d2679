package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/auth"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/httpx"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/policy"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/services"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/validation"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/view"
)

// OperationHandler serves the entry form and the mutating endpoints.
// The route middleware already checked the role table; ownership on
// edit and delete is authorized here, once the record is loaded.
type OperationHandler struct {
	db   *gorm.DB
	ops  *services.OperationService
	cats *services.CategoryService
	gate *policy.Gate
}

func NewOperationHandler(db *gorm.DB, ops *services.OperationService, cats *services.CategoryService, gate *policy.Gate) *OperationHandler {
	return &OperationHandler{db: db, ops: ops, cats: cats, gate: gate}
}

// parseInput converts the posted form into an OperationInput. Every
// form field is supplied, so empty optionals clear their value; only
// an empty amount stays unsupplied, which lets the vente derivation
// rule (or the previous amount) decide.
func parseInput(r *http.Request, v validation.Violations) services.OperationInput {
	in := services.OperationInput{
		Type:        formPtr(r, "type"),
		Date:        formPtr(r, "date"),
		Label:       formPtr(r, "label"),
		Note:        formPtr(r, "note"),
		Designation: formPtr(r, "designation"),
	}

	var categoryID uint
	if s := r.FormValue("category_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			v["category_id"] = "invalid_choice"
		}
		categoryID = uint(id)
	}
	in.CategoryID = &categoryID

	var quantity int
	if s := r.FormValue("quantity"); s != "" {
		q, err := strconv.Atoi(s)
		if err != nil {
			v["quantity"] = "must_be_positive"
		}
		quantity = q
	}
	in.Quantity = &quantity

	unitPrice := decimal.Zero
	if s := r.FormValue("unit_price"); s != "" {
		p, err := decimal.NewFromString(s)
		if err != nil {
			v["unit_price"] = "invalid_amount"
		}
		unitPrice = p
	}
	in.UnitPrice = &unitPrice

	if s := r.FormValue("amount"); s != "" {
		a, err := decimal.NewFromString(s)
		if err != nil {
			v["amount"] = "invalid_amount"
		} else {
			in.Amount = &a
		}
	}
	return in
}

func formPtr(r *http.Request, field string) *string {
	s := r.FormValue(field)
	return &s
}

func (h *OperationHandler) renderForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	cats, err := h.cats.List(r.Context())
	if err != nil {
		http.Error(w, "failed to load categories", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	data["Categories"] = cats
	view.Render(w, r, "form.html", data)
}

func (h *OperationHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, nil)
}

func (h *OperationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	v := make(validation.Violations)
	in := parseInput(r, v)
	if !v.Empty() {
		h.renderForm(w, r, map[string]any{"Errors": v})
		return
	}

	if _, err := h.ops.Create(r.Context(), userID, in); err != nil {
		if ve, ok := services.AsValidation(err); ok {
			h.renderForm(w, r, map[string]any{"Errors": ve.Violations})
			return
		}
		http.Error(w, "failed to save operation", http.StatusInternalServerError)
		return
	}

	httpx.NoticeRedirect(w, r, "/journal", "operation_saved")
}

func (h *OperationHandler) Edit(w http.ResponseWriter, r *http.Request) {
	op, ok := h.loadAuthorized(w, r, policy.ActionUpdate)
	if !ok {
		return
	}
	h.renderForm(w, r, map[string]any{"Op": op})
}

func (h *OperationHandler) Update(w http.ResponseWriter, r *http.Request) {
	op, ok := h.loadAuthorized(w, r, policy.ActionUpdate)
	if !ok {
		return
	}

	v := make(validation.Violations)
	in := parseInput(r, v)
	if !v.Empty() {
		h.renderForm(w, r, map[string]any{"Op": op, "Errors": v})
		return
	}

	if _, err := h.ops.Update(r.Context(), op.ID, in); err != nil {
		if ve, ok := services.AsValidation(err); ok {
			h.renderForm(w, r, map[string]any{"Op": op, "Errors": ve.Violations})
			return
		}
		if errors.Is(err, services.ErrNotFound) {
			httpx.NoticeRedirect(w, r, "/journal", "operation_missing")
			return
		}
		http.Error(w, "failed to update operation", http.StatusInternalServerError)
		return
	}

	httpx.NoticeRedirect(w, r, "/journal", "operation_updated")
}

func (h *OperationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	op, ok := h.loadAuthorized(w, r, policy.ActionDelete)
	if !ok {
		return
	}

	if err := h.ops.Delete(r.Context(), op.ID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.NoticeRedirect(w, r, "/journal", "operation_missing")
			return
		}
		http.Error(w, "failed to delete operation", http.StatusInternalServerError)
		return
	}

	httpx.NoticeRedirect(w, r, "/journal", "operation_deleted")
}

// loadAuthorized fetches the operation from the path id and runs the
// ownership check. Denials route back to the journal, never to an
// error page.
func (h *OperationHandler) loadAuthorized(w http.ResponseWriter, r *http.Request, action policy.Action) (*models.Operation, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		httpx.NoticeRedirect(w, r, "/journal", "operation_missing")
		return nil, false
	}
	op, err := h.ops.Get(r.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.NoticeRedirect(w, r, "/journal", "operation_missing")
			return nil, false
		}
		http.Error(w, "failed to load operation", http.StatusInternalServerError)
		return nil, false
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), userID, action, policy.ResourceOperation, op); err != nil {
		policy.Deny(w, r)
		return nil, false
	}
	return op, true
}
