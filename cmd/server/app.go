package main

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/auth"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/handlers"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/i18n"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/policy"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/services"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/view"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux  *http.ServeMux
	db   *gorm.DB
	gate *policy.Gate
}

// NewApp wires services, handlers and routes. publisher may be nil
// when no broker is configured; the backup endpoint then just reports
// it.
func NewApp(db *gorm.DB, gate *policy.Gate, publisher handlers.BackupPublisher) *App {
	app := &App{
		mux:  http.NewServeMux(),
		db:   db,
		gate: gate,
	}

	// Expose minimal permission resolvers to the view layer so
	// templates can show/hide actions without importing policy types.
	view.SetCanResolver(func(r *http.Request, resource, action string) bool {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			return false
		}
		return gate.CanRole(r.Context(), userID, policy.Action(action), resource)
	})
	view.SetIsAdminResolver(func(r *http.Request) bool {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			return false
		}
		return gate.IsAdmin(r.Context(), userID)
	})

	ops := services.NewOperationService(db)
	cats := services.NewCategoryService(db)
	invites := services.NewInviteService(db)

	ah := handlers.NewAuthHandler(db, invites)
	jh := handlers.NewJournalHandler(db, cats)
	oh := handlers.NewOperationHandler(db, ops, cats, gate)
	ch := handlers.NewCategoryHandler(cats)
	adh := handlers.NewAdminHandler(db, invites)
	eh := handlers.NewExportHandler(db)
	apih := handlers.NewAPIHandler(db)
	bh := handlers.NewBackupHandler(publisher)

	mux := app.mux

	// Public routes
	mux.HandleFunc("GET /login", ah.Login)
	mux.HandleFunc("POST /login", ah.Login)
	mux.HandleFunc("GET /register", ah.Register)
	mux.HandleFunc("POST /register", ah.Register)
	mux.HandleFunc("GET /logout", ah.Logout)
	mux.HandleFunc("POST /logout", ah.Logout)

	// Read views: every authenticated role may see them.
	mux.Handle("GET /{$}", auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/journal", http.StatusSeeOther)
	})))
	mux.Handle("GET /journal", app.requireAuth(http.HandlerFunc(jh.Journal)))
	mux.Handle("GET /rapports", app.requireAuth(http.HandlerFunc(jh.Reports)))
	mux.Handle("GET /dashboard", app.requireAuth(http.HandlerFunc(jh.Dashboard)))
	mux.Handle("GET /api/monthly", app.requireAuth(http.HandlerFunc(apih.Monthly)))
	mux.Handle("GET /export/csv", app.requireAuth(http.HandlerFunc(eh.CSV)))
	mux.Handle("GET /export/pdf", app.requireAuth(http.HandlerFunc(eh.PDF)))
	mux.Handle("GET /backup", app.requireAuth(http.HandlerFunc(bh.Backup)))

	// Operation mutations: the role table gates create here; ownership
	// on update/delete is checked in the handler once the record is
	// loaded.
	mux.Handle("GET /operation/new",
		app.requireAuth(app.requirePermission(policy.ResourceOperation, policy.ActionCreate)(http.HandlerFunc(oh.New))))
	mux.Handle("POST /operation/new",
		app.requireAuth(app.requirePermission(policy.ResourceOperation, policy.ActionCreate)(http.HandlerFunc(oh.Create))))
	mux.Handle("GET /operation/{id}/edit",
		app.requireAuth(app.requirePermission(policy.ResourceOperation, policy.ActionUpdate)(http.HandlerFunc(oh.Edit))))
	mux.Handle("POST /operation/{id}/edit",
		app.requireAuth(app.requirePermission(policy.ResourceOperation, policy.ActionUpdate)(http.HandlerFunc(oh.Update))))
	mux.Handle("POST /operation/{id}/delete",
		app.requireAuth(app.requirePermission(policy.ResourceOperation, policy.ActionDelete)(http.HandlerFunc(oh.Delete))))

	// Admin-only management
	mux.Handle("GET /categories", app.requireAuth(app.requireAdmin(http.HandlerFunc(ch.List))))
	mux.Handle("POST /categories", app.requireAuth(app.requireAdmin(http.HandlerFunc(ch.Create))))
	mux.Handle("POST /categories/{id}/delete", app.requireAuth(app.requireAdmin(http.HandlerFunc(ch.Delete))))
	mux.Handle("GET /admin/users", app.requireAuth(app.requireAdmin(http.HandlerFunc(adh.Users))))
	mux.Handle("GET /admin/invite/create", app.requireAuth(app.requireAdmin(http.HandlerFunc(adh.CreateInvite))))

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	return app
}

// ServeHTTP implements http.Handler: session context first, then
// language preferences, then the routes.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := auth.Middleware(withLang(a.mux))
	handler.ServeHTTP(w, r)
}

func (a *App) requireAuth(next http.Handler) http.Handler {
	return auth.RequireAuth(next)
}

func (a *App) requirePermission(resourceType string, action policy.Action) func(http.Handler) http.Handler {
	return a.gate.RequirePermission(resourceType, action)
}

func (a *App) requireAdmin(next http.Handler) http.Handler {
	return a.gate.RequireAdmin()(next)
}

// withLang resolves the request language: explicit ?lang= wins and is
// remembered in a cookie, then the cookie, then Accept-Language.
func withLang(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); q != "" {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		if lang == "" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}
