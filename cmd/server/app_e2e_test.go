package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/auth"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/policy"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/view"
)

func setupE2EDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbi, err := gorm.Open(sqlite.Open("file:e2e_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := dbi.AutoMigrate(&models.User{}, &models.InviteToken{}, &models.Category{}, &models.Operation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return dbi
}

func e2eUser(t *testing.T, dbi *gorm.DB, email string, role models.Role) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := models.User{Email: email, Name: "e2e", Password: string(hash), Role: role}
	if err := dbi.Create(&u).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	return u
}

func sessionCookie(t *testing.T, userID uint) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	auth.CreateSession(rec, userID)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func newTestApp(t *testing.T, dbi *gorm.DB) *App {
	t.Helper()
	view.SetBaseDir("../../templates")
	auth.SetUserVerifier(nil)
	gate := policy.NewGate(dbi, time.Minute)
	return NewApp(dbi, gate, nil)
}

func TestJournalRenderingE2E(t *testing.T) {
	dbi := setupE2EDB(t)
	u := e2eUser(t, dbi, "admin@e2e.test", models.RoleAdmin)

	cat := models.Category{Name: "vente"}
	if err := dbi.Create(&cat).Error; err != nil {
		t.Fatalf("category: %v", err)
	}
	qty := 3
	price := decimal.RequireFromString("1500")
	ops := []models.Operation{
		{Type: models.TypeEntree, Label: "apport initial", Amount: decimal.RequireFromString("10000"), Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), UserID: u.ID},
		{Type: models.TypeVente, Label: "savon", Amount: decimal.RequireFromString("4500"), Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), UserID: u.ID, CategoryID: &cat.ID, Quantity: &qty, UnitPrice: &price},
		{Type: models.TypeDepense, Label: "transport", Amount: decimal.RequireFromString("600"), Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), UserID: u.ID},
	}
	for i := range ops {
		if err := dbi.Create(&ops[i]).Error; err != nil {
			t.Fatalf("op: %v", err)
		}
	}

	app := newTestApp(t, dbi)
	req := httptest.NewRequest(http.MethodGet, "/journal", nil)
	req.AddCookie(sessionCookie(t, u.ID))
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Journal de caisse") {
		t.Errorf("missing journal heading")
	}
	for _, want := range []string{"apport initial", "savon", "transport"} {
		if !strings.Contains(body, want) {
			t.Errorf("missing row %q", want)
		}
	}
	// final running balance: 10000 + 4500 - 600
	if !strings.Contains(body, "13900.00") {
		t.Errorf("missing running balance 13900.00 in body")
	}
}

func TestUnauthenticatedRedirectsToLoginE2E(t *testing.T) {
	dbi := setupE2EDB(t)
	app := newTestApp(t, dbi)

	req := httptest.NewRequest(http.MethodGet, "/journal", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestViewerCannotOpenEntryFormE2E(t *testing.T) {
	dbi := setupE2EDB(t)
	u := e2eUser(t, dbi, "viewer@e2e.test", models.RoleViewer)
	app := newTestApp(t, dbi)

	req := httptest.NewRequest(http.MethodGet, "/operation/new", nil)
	req.AddCookie(sessionCookie(t, u.ID))
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected forbidden redirect, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/journal?notice=forbidden" {
		t.Errorf("Location = %q", loc)
	}
}

func TestEditorCannotTouchOthersEntryE2E(t *testing.T) {
	dbi := setupE2EDB(t)
	owner := e2eUser(t, dbi, "owner@e2e.test", models.RoleEditor)
	other := e2eUser(t, dbi, "other@e2e.test", models.RoleEditor)

	op := models.Operation{Type: models.TypeEntree, Label: "apport", Amount: decimal.RequireFromString("100"), Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), UserID: owner.ID}
	if err := dbi.Create(&op).Error; err != nil {
		t.Fatalf("op: %v", err)
	}

	app := newTestApp(t, dbi)
	form := url.Values{}
	req := httptest.NewRequest(http.MethodPost, "/operation/1/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(sessionCookie(t, other.ID))
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if loc := rr.Header().Get("Location"); loc != "/journal?notice=forbidden" {
		t.Errorf("Location = %q, want forbidden redirect", loc)
	}
	var count int64
	dbi.Model(&models.Operation{}).Count(&count)
	if count != 1 {
		t.Errorf("entry was deleted by a non-owner")
	}
}

func TestLoginFlowE2E(t *testing.T) {
	dbi := setupE2EDB(t)
	e2eUser(t, dbi, "admin@e2e.test", models.RoleAdmin)
	app := newTestApp(t, dbi)

	form := url.Values{"email": {"admin@e2e.test"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after login, got %d body=%s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/journal" {
		t.Errorf("Location = %q, want /journal", loc)
	}
	var sess *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "session" {
			sess = c
		}
	}
	if sess == nil || sess.Value == "" {
		t.Fatal("no session cookie after login")
	}

	// wrong password stays on the login page
	form = url.Values{"email": {"admin@e2e.test"}, "password": {"wrong"}}
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code == http.StatusSeeOther {
		t.Error("wrong password must not redirect to the journal")
	}
}

func TestMonthlyAPIE2E(t *testing.T) {
	dbi := setupE2EDB(t)
	u := e2eUser(t, dbi, "admin@e2e.test", models.RoleAdmin)
	op := models.Operation{Type: models.TypeVente, Label: "savon", Amount: decimal.RequireFromString("4500"), Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), UserID: u.ID}
	if err := dbi.Create(&op).Error; err != nil {
		t.Fatalf("op: %v", err)
	}

	app := newTestApp(t, dbi)
	req := httptest.NewRequest(http.MethodGet, "/api/monthly", nil)
	req.AddCookie(sessionCookie(t, u.ID))
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"2024-05"`) || !strings.Contains(body, `"4500.00"`) {
		t.Errorf("unexpected payload: %s", body)
	}
}
