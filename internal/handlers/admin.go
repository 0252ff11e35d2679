package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/httpx"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/services"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/view"
)

// AdminHandler serves the user list and invitation management, both
// admin-only.
type AdminHandler struct {
	db      *gorm.DB
	invites *services.InviteService
}

func NewAdminHandler(db *gorm.DB, invites *services.InviteService) *AdminHandler {
	return &AdminHandler{db: db, invites: invites}
}

// Users lists the accounts and every invitation ever issued, newest
// invites first, as an audit trail.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.db.WithContext(r.Context()).Order("id ASC").Find(&users).Error; err != nil {
		http.Error(w, "failed to load users", http.StatusInternalServerError)
		return
	}
	var invites []models.InviteToken
	if err := h.db.WithContext(r.Context()).Order("id DESC").Find(&invites).Error; err != nil {
		http.Error(w, "failed to load invites", http.StatusInternalServerError)
		return
	}
	view.Render(w, r, "users.html", map[string]any{
		"Users":   users,
		"Invites": invites,
		"Notice":  r.URL.Query().Get("notice"),
	})
}

// CreateInvite issues a 7-day invitation for the requested role.
// Anything but viewer or editor silently falls back to viewer.
func (h *AdminHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	role := models.ParseRole(r.URL.Query().Get("role"))
	if _, err := h.invites.Issue(r.Context(), role, services.DefaultInviteTTL); err != nil {
		http.Error(w, "failed to create invite", http.StatusInternalServerError)
		return
	}
	httpx.NoticeRedirect(w, r, "/admin/users", "invite_created")
}
