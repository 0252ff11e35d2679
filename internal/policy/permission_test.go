package policy

import "testing"

func TestPermission_Matches(t *testing.T) {
	tests := []struct {
		name      string
		held      Permission
		requested Permission
		want      bool
	}{
		{"exact match", "operation:create", "operation:create", true},
		{"different action", "operation:create", "operation:delete", false},
		{"different resource", "operation:create", "category:create", false},
		{"superadmin matches everything", PermissionSuperAdmin, "category:delete", true},
		{"resource wildcard", "operation:*", "operation:update", true},
		{"resource wildcard wrong resource", "operation:*", "category:update", false},
		{"malformed held permission", "operation", "operation:view", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.held.Matches(tt.requested); got != tt.want {
				t.Errorf("%q.Matches(%q) = %v, want %v", tt.held, tt.requested, got, tt.want)
			}
		})
	}
}

func TestPermission_Parse(t *testing.T) {
	res, act := Permission("operation:create").Parse()
	if res != "operation" || act != ActionCreate {
		t.Errorf("Parse() = (%q, %q)", res, act)
	}
	res, act = Permission("broken").Parse()
	if res != "" || act != "" {
		t.Errorf("malformed Parse() = (%q, %q), want empty", res, act)
	}
}

func TestNewPermission(t *testing.T) {
	if p := NewPermission(ResourceOperation, ActionUpdate); p != "operation:update" {
		t.Errorf("NewPermission() = %q", p)
	}
}
