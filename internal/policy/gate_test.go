package policy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
)

func setupGateDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:gate_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Operation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role) uint {
	t.Helper()
	u := models.User{Email: email, Name: "u", Password: "x", Role: role}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

func TestGate_Authorize(t *testing.T) {
	db := setupGateDB(t)
	admin := seedUser(t, db, "admin@test", models.RoleAdmin)
	editor := seedUser(t, db, "editor@test", models.RoleEditor)
	viewer := seedUser(t, db, "viewer@test", models.RoleViewer)

	g := NewGate(db, time.Minute)
	ctx := context.Background()
	owned := &models.Operation{UserID: editor}

	if err := g.Authorize(ctx, editor, ActionUpdate, ResourceOperation, owned); err != nil {
		t.Errorf("editor should update own entry: %v", err)
	}
	other := &models.Operation{UserID: admin}
	if err := g.Authorize(ctx, editor, ActionUpdate, ResourceOperation, other); err == nil {
		t.Error("editor must not update someone else's entry")
	}
	if err := g.Authorize(ctx, admin, ActionDelete, ResourceOperation, owned); err != nil {
		t.Errorf("admin should delete anything: %v", err)
	}
	if err := g.Authorize(ctx, viewer, ActionCreate, ResourceOperation, nil); err == nil {
		t.Error("viewer must not create entries")
	}
	if err := g.Authorize(ctx, 0, ActionView, ResourceJournal, nil); err == nil {
		t.Error("anonymous user must be denied")
	}
	if err := g.Authorize(ctx, 9999, ActionView, ResourceJournal, nil); err == nil {
		t.Error("unknown user must be denied")
	}
}

func TestGate_IsAdmin(t *testing.T) {
	db := setupGateDB(t)
	admin := seedUser(t, db, "admin@test", models.RoleAdmin)
	editor := seedUser(t, db, "editor@test", models.RoleEditor)

	g := NewGate(db, time.Minute)
	if !g.IsAdmin(context.Background(), admin) {
		t.Error("admin not recognized")
	}
	if g.IsAdmin(context.Background(), editor) {
		t.Error("editor must not be admin")
	}
	if g.IsAdmin(context.Background(), 0) {
		t.Error("anonymous must not be admin")
	}
}

func TestDeny(t *testing.T) {
	// browser requests go back to the journal
	req := httptest.NewRequest(http.MethodGet, "/operation/1/edit", nil)
	rr := httptest.NewRecorder()
	Deny(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Errorf("code = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if loc := rr.Header().Get("Location"); loc != "/journal?notice=forbidden" {
		t.Errorf("Location = %q", loc)
	}

	// API callers get a JSON 403
	req = httptest.NewRequest(http.MethodGet, "/api/monthly", nil)
	req.Header.Set("Accept", "application/json")
	rr = httptest.NewRecorder()
	Deny(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("code = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

// countingResolver counts how often the inner resolver is hit.
type countingResolver struct {
	role  models.Role
	calls int
}

func (r *countingResolver) Resolve(_ context.Context, _ uint) (models.Role, error) {
	r.calls++
	return r.role, nil
}

func TestCachedResolver(t *testing.T) {
	inner := &countingResolver{role: models.RoleEditor}
	cached := NewCachedResolver(inner, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		role, err := cached.Resolve(ctx, 7)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if role != models.RoleEditor {
			t.Fatalf("role = %q", role)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner hit %d times, want 1", inner.calls)
	}

	cached.Invalidate(7)
	if _, err := cached.Resolve(ctx, 7); err != nil {
		t.Fatalf("resolve after invalidate: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner hit %d times after invalidate, want 2", inner.calls)
	}
}
