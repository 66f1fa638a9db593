package authz_test

import (
	"testing"

	"github.com/shopfort/shopfort/internal/authz"
)

func TestRole_RankOrdering(t *testing.T) {
	// admin > manager > accountant > viewer, strictly
	order := []authz.Role{authz.RoleAdmin, authz.RoleManager, authz.RoleAccountant, authz.RoleViewer}
	for i := 0; i < len(order)-1; i++ {
		if order[i].Rank() <= order[i+1].Rank() {
			t.Errorf("expected %s to outrank %s", order[i], order[i+1])
		}
	}
}

func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     authz.Role
		min      authz.Role
		expected bool
	}{
		{"admin passes any minimum", authz.RoleAdmin, authz.RoleManager, true},
		{"admin passes admin", authz.RoleAdmin, authz.RoleAdmin, true},
		{"role passes itself", authz.RoleAccountant, authz.RoleAccountant, true},
		{"manager outranks accountant", authz.RoleManager, authz.RoleAccountant, true},
		{"accountant does not reach manager", authz.RoleAccountant, authz.RoleManager, false},
		{"viewer does not reach manager", authz.RoleViewer, authz.RoleManager, false},
		{"viewer passes viewer", authz.RoleViewer, authz.RoleViewer, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.AtLeast(tt.min); got != tt.expected {
				t.Errorf("%s.AtLeast(%s) = %v, want %v", tt.role, tt.min, got, tt.expected)
			}
		})
	}
}

// Monotonicity: if a lower rank passes a minimum, every higher rank
// passes it too.
func TestRole_AtLeast_Monotonic(t *testing.T) {
	for _, min := range authz.Roles {
		for i, higher := range authz.Roles {
			for _, lower := range authz.Roles[i:] {
				if lower.AtLeast(min) && !higher.AtLeast(min) {
					t.Errorf("rank order violated: %s passes min %s but %s does not", lower, min, higher)
				}
			}
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range authz.Roles {
		parsed, err := authz.ParseRole(string(r))
		if err != nil {
			t.Fatalf("ParseRole(%q) returned error: %v", r, err)
		}
		if parsed != r {
			t.Errorf("ParseRole(%q) = %q", r, parsed)
		}
	}

	for _, bad := range []string{"", "root", "Admin", "superuser"} {
		if _, err := authz.ParseRole(bad); err == nil {
			t.Errorf("ParseRole(%q) should fail", bad)
		}
	}
}

func TestDefaultGrants_CatalogMembership(t *testing.T) {
	valid := authz.NewPermissionSet(authz.AllPermissions)
	for role, grants := range authz.DefaultGrants {
		for _, p := range grants {
			if !valid.Has(p) {
				t.Errorf("role %s granted %q, which is not in the catalog", role, p)
			}
		}
	}
}
