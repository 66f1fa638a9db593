package authz_test

import (
	"testing"

	"github.com/shopfort/shopfort/internal/authn"
	"github.com/shopfort/shopfort/internal/authz"
)

func viewerIdentity() *authz.Identity {
	return &authz.Identity{
		SubjectID:   "user_viewer",
		Method:      authn.MethodToken,
		Role:        authz.RoleViewer,
		Permissions: authz.NewPermissionSet([]authz.Permission{authz.PermOrdersRead}),
	}
}

func TestHasPermission(t *testing.T) {
	id := viewerIdentity()

	if !authz.HasPermission(id, authz.PermOrdersRead) {
		t.Error("identity should hold orders:read")
	}
	if authz.HasPermission(id, authz.PermOrdersWrite) {
		t.Error("identity should not hold orders:write")
	}
	if authz.HasPermission(nil, authz.PermOrdersRead) {
		t.Error("nil identity holds nothing")
	}
}

func TestHasAnyPermission(t *testing.T) {
	id := viewerIdentity()

	tests := []struct {
		name     string
		id       *authz.Identity
		perms    []authz.Permission
		expected bool
	}{
		{"single match", id, []authz.Permission{authz.PermOrdersRead}, true},
		{"any semantics: one of two held", id, []authz.Permission{authz.PermOrdersRead, authz.PermOrdersWrite}, true},
		{"no match", id, []authz.Permission{authz.PermOrdersWrite, authz.PermSettingsWrite}, false},
		{"empty list never grants", id, nil, false},
		{"nil identity", nil, []authz.Permission{authz.PermOrdersRead}, false},
		{"nil identity, empty list", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := authz.HasAnyPermission(tt.id, tt.perms); got != tt.expected {
				t.Errorf("HasAnyPermission = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHasAllPermissions(t *testing.T) {
	id := viewerIdentity()
	id.Permissions = authz.NewPermissionSet([]authz.Permission{authz.PermOrdersRead, authz.PermReportsRead})

	tests := []struct {
		name     string
		id       *authz.Identity
		perms    []authz.Permission
		expected bool
	}{
		{"all held", id, []authz.Permission{authz.PermOrdersRead, authz.PermReportsRead}, true},
		{"one missing", id, []authz.Permission{authz.PermOrdersRead, authz.PermOrdersWrite}, false},
		{"empty list is vacuously true for a real identity", id, nil, true},
		{"nil identity fails non-empty list", nil, []authz.Permission{authz.PermOrdersRead}, false},
		// Null-identity override: a nil identity fails even the empty
		// list, consistent with every other nil-identity predicate.
		{"nil identity fails empty list", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := authz.HasAllPermissions(tt.id, tt.perms); got != tt.expected {
				t.Errorf("HasAllPermissions = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHasRole(t *testing.T) {
	id := viewerIdentity()

	if !authz.HasRole(id, []authz.Role{authz.RoleViewer, authz.RoleAdmin}) {
		t.Error("viewer should match a list containing viewer")
	}
	if authz.HasRole(id, []authz.Role{authz.RoleAdmin, authz.RoleManager}) {
		t.Error("role matching is exact, viewer is not admin or manager")
	}
	if authz.HasRole(nil, []authz.Role{authz.RoleViewer}) {
		t.Error("nil identity has no role")
	}
}

func TestHasMinRole(t *testing.T) {
	if authz.HasMinRole(nil, authz.RoleViewer) {
		t.Error("nil identity never reaches a minimum role")
	}

	admin := &authz.Identity{Role: authz.RoleAdmin}
	for _, min := range authz.Roles {
		if !authz.HasMinRole(admin, min) {
			t.Errorf("admin should pass min role %s", min)
		}
	}

	viewer := &authz.Identity{Role: authz.RoleViewer}
	if authz.HasMinRole(viewer, authz.RoleManager) {
		t.Error("viewer should not pass min role manager")
	}
}
