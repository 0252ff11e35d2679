package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/httpx"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/services"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/view"
)

// CategoryHandler serves the admin-only category registry page.
type CategoryHandler struct {
	cats *services.CategoryService
}

func NewCategoryHandler(cats *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{cats: cats}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.cats.List(r.Context())
	if err != nil {
		http.Error(w, "failed to load categories", http.StatusInternalServerError)
		return
	}
	view.Render(w, r, "categories.html", map[string]any{
		"Categories": cats,
		"Notice":     r.URL.Query().Get("notice"),
	})
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, err := h.cats.Create(r.Context(), r.FormValue("name"))
	if err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			httpx.NoticeRedirect(w, r, "/categories", "category_duplicate")
			return
		}
		if _, ok := services.AsValidation(err); ok {
			httpx.NoticeRedirect(w, r, "/categories", "category_duplicate")
			return
		}
		http.Error(w, "failed to create category", http.StatusInternalServerError)
		return
	}
	httpx.NoticeRedirect(w, r, "/categories", "category_added")
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		httpx.NoticeRedirect(w, r, "/categories", "category_missing")
		return
	}
	if err := h.cats.Delete(r.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			httpx.NoticeRedirect(w, r, "/categories", "category_missing")
			return
		}
		http.Error(w, "failed to delete category", http.StatusInternalServerError)
		return
	}
	httpx.NoticeRedirect(w, r, "/categories", "category_deleted")
}
