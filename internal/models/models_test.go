package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestOperationType_Valid(t *testing.T) {
	tests := []struct {
		typ  OperationType
		want bool
	}{
		{TypeEntree, true},
		{TypeDepense, true},
		{TypeVente, true},
		{"", false},
		{"ENTREE", false},
		{"transfer", false},
	}
	for _, tt := range tests {
		if got := tt.typ.Valid(); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestOperation_GetUserID(t *testing.T) {
	op := &Operation{UserID: 42}
	if got := op.GetUserID(); got != 42 {
		t.Errorf("GetUserID() = %d, want 42", got)
	}
}

func TestOperation_SignedAmount(t *testing.T) {
	tests := []struct {
		name   string
		typ    OperationType
		amount string
		want   string
	}{
		{"entree adds", TypeEntree, "100", "100"},
		{"vente adds", TypeVente, "250.50", "250.5"},
		{"depense subtracts", TypeDepense, "80", "-80"},
		{"negative depense adds back", TypeDepense, "-30", "30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := &Operation{Type: tt.typ, Amount: decimal.RequireFromString(tt.amount)}
			if got := op.SignedAmount(); got.String() != tt.want {
				t.Errorf("SignedAmount() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOperation_MonthKey(t *testing.T) {
	op := &Operation{Date: time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)}
	if got := op.MonthKey(); got != "2024-03" {
		t.Errorf("MonthKey() = %q, want 2024-03", got)
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"editor", RoleEditor},
		{"viewer", RoleViewer},
		{"user", RoleUser},
		{"superadmin", RoleUser},
		{"", RoleUser},
	}
	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRole_Invitable(t *testing.T) {
	if RoleAdmin.Invitable() {
		t.Error("admin must never be invitable")
	}
	if RoleUser.Invitable() {
		t.Error("plain user is not an invitable role")
	}
	if !RoleViewer.Invitable() || !RoleEditor.Invitable() {
		t.Error("viewer and editor must be invitable")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestInviteToken_Redeemable(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		token InviteToken
		want  bool
	}{
		{"fresh", InviteToken{ExpiresAt: now.Add(time.Hour)}, true},
		{"used", InviteToken{ExpiresAt: now.Add(time.Hour), Used: true}, false},
		{"expired", InviteToken{ExpiresAt: now.Add(-time.Second)}, false},
		{"expires exactly now", InviteToken{ExpiresAt: now}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.Redeemable(now); got != tt.want {
				t.Errorf("Redeemable() = %v, want %v", got, tt.want)
			}
		})
	}
}
