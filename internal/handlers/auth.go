package handlers

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/auth"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/services"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/view"
)

// AuthHandler serves login, invite-aware registration and logout.
type AuthHandler struct {
	db      *gorm.DB
	invites *services.InviteService
}

func NewAuthHandler(db *gorm.DB, invites *services.InviteService) *AuthHandler {
	return &AuthHandler{db: db, invites: invites}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		view.Render(w, r, "login.html", nil)
		return
	}

	email := models.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		view.Render(w, r, "login.html", map[string]any{"Error": "invalid_credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		view.Render(w, r, "login.html", map[string]any{"Error": "invalid_credentials"})
		return
	}

	auth.CreateSession(w, user.ID)
	http.Redirect(w, r, "/journal", http.StatusSeeOther)
}

// Register handles both plain signups and invitation links
// (?invite=<token>). A dead link is refused before the form renders;
// a valid one pre-assigns its role, except for the very first account,
// which always becomes admin.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("invite")
	role := models.RoleUser
	if token != "" {
		invite, err := h.invites.Lookup(r.Context(), token)
		if err != nil {
			http.Redirect(w, r, "/login?notice=invalid_invite", http.StatusSeeOther)
			return
		}
		role = invite.Role
	}

	if r.Method == http.MethodGet {
		view.Render(w, r, "register.html", map[string]any{
			"Invite": token,
			"Role":   role,
		})
		return
	}

	name := r.FormValue("name")
	email := r.FormValue("email")
	password := r.FormValue("password")

	var err error
	if token != "" {
		_, err = h.invites.Redeem(r.Context(), token, name, email, password)
	} else {
		_, err = h.invites.Register(r.Context(), name, email, password)
	}
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInvite):
			http.Redirect(w, r, "/login?notice=invalid_invite", http.StatusSeeOther)
		case errors.Is(err, services.ErrEmailTaken):
			view.Render(w, r, "register.html", map[string]any{
				"Invite": token,
				"Role":   role,
				"Error":  "email_taken",
			})
		default:
			if ve, ok := services.AsValidation(err); ok {
				view.Render(w, r, "register.html", map[string]any{
					"Invite": token,
					"Role":   role,
					"Errors": ve.Violations,
				})
				return
			}
			http.Error(w, "registration failed", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/login?notice=account_created", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
