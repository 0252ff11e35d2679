package policy

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/auth"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
)

// ErrForbidden is returned for any denied action. Denials are
// per-request and recoverable; handlers route the caller back to the
// journal instead of failing hard.
var ErrForbidden = errors.New("forbidden")

// Gate is the central authorization checkpoint. It resolves the acting
// user's role, checks the role→permission table, then applies any
// resource policy (ownership) registered for the resource type.
type Gate struct {
	resolver RoleResolver
	policies map[string]ResourcePolicy
}

// NewGate creates a fully configured gate: a cached DB role resolver
// plus the ownership policy on operations.
func NewGate(db *gorm.DB, cacheTTL time.Duration) *Gate {
	g := &Gate{
		resolver: NewCachedResolver(NewDBRoleResolver(db), cacheTTL),
		policies: make(map[string]ResourcePolicy),
	}
	g.Register(ResourceOperation, NewOwnershipPolicy())
	return g
}

// Register adds a resource policy for a resource type.
func (g *Gate) Register(resourceType string, p ResourcePolicy) {
	g.policies[resourceType] = p
}

// Resolver exposes the gate's role resolver (for cache invalidation
// and for views that adapt to the acting user's role).
func (g *Gate) Resolver() RoleResolver {
	return g.resolver
}

// Authorize checks whether userID may perform action on resourceType.
// When resource is non-nil and a resource policy is registered, the
// policy is consulted as well (ownership). Returns ErrForbidden on any
// denial, including an unresolvable user.
func (g *Gate) Authorize(ctx context.Context, userID uint, action Action, resourceType string, resource any) error {
	if userID == 0 {
		return ErrForbidden
	}
	role, err := g.resolver.Resolve(ctx, userID)
	if err != nil {
		return ErrForbidden
	}
	if !RoleAllows(role, NewPermission(resourceType, action)) {
		return ErrForbidden
	}
	if resource != nil {
		if p, ok := g.policies[resourceType]; ok {
			if !p.Can(ctx, userID, role, action, resource) {
				return ErrForbidden
			}
		}
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate) Can(ctx context.Context, userID uint, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, userID, action, resourceType, resource) == nil
}

// CanRole checks only the role table, without an ownership check.
// Useful for templates to show or hide buttons before a specific
// operation is loaded.
func (g *Gate) CanRole(ctx context.Context, userID uint, action Action, resourceType string) bool {
	if userID == 0 {
		return false
	}
	role, err := g.resolver.Resolve(ctx, userID)
	if err != nil {
		return false
	}
	return RoleAllows(role, NewPermission(resourceType, action))
}

// IsAdmin reports whether the user holds the admin role.
func (g *Gate) IsAdmin(ctx context.Context, userID uint) bool {
	if userID == 0 {
		return false
	}
	role, err := g.resolver.Resolve(ctx, userID)
	return err == nil && role == models.RoleAdmin
}

// Deny writes the Forbidden outcome: a redirect to the journal for
// browsers, a 403 JSON body for API callers. Never a blank error page.
func Deny(w http.ResponseWriter, r *http.Request) {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"forbidden"}`))
		return
	}
	http.Redirect(w, r, "/journal?notice=forbidden", http.StatusSeeOther)
}

// RequirePermission returns middleware that checks the role table
// before letting the request through. Ownership checks on specific
// operations stay in the handlers, where the record is loaded.
func (g *Gate) RequirePermission(resourceType string, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, _ := auth.UserIDFromContext(r.Context())
			if !g.CanRole(r.Context(), userID, action, resourceType) {
				Deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns middleware that only lets admins through.
func (g *Gate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			role, err := g.resolver.Resolve(r.Context(), userID)
			if err != nil || role != models.RoleAdmin {
				Deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
