// Copyright 2026 The Shopfort Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package authz

// Permission is a fine-grained capability tag in the form
// "resource:action". Two permissions are equal iff their strings are
// identical; there is no wildcard and no hierarchy between permission
// strings. All hierarchy lives in the role -> permission grants held by
// the directory.
type Permission string

// Actions. Every permission in the catalog uses one of these.
const (
	ActionRead    = "read"
	ActionWrite   = "write"
	ActionDelete  = "delete"
	ActionApprove = "approve"
)

// The permission catalog. This is a process-wide constant table: grants
// per role are data (role_permissions), the catalog itself is not.
const (
	PermOrdersRead    Permission = "orders:read"
	PermOrdersWrite   Permission = "orders:write"
	PermOrdersDelete  Permission = "orders:delete"
	PermOrdersApprove Permission = "orders:approve"

	PermProductsRead   Permission = "products:read"
	PermProductsWrite  Permission = "products:write"
	PermProductsDelete Permission = "products:delete"

	PermCustomersRead  Permission = "customers:read"
	PermCustomersWrite Permission = "customers:write"

	PermCouponsRead   Permission = "coupons:read"
	PermCouponsWrite  Permission = "coupons:write"
	PermCouponsDelete Permission = "coupons:delete"

	PermRefundsRead    Permission = "refunds:read"
	PermRefundsWrite   Permission = "refunds:write"
	PermRefundsApprove Permission = "refunds:approve"

	PermReportsRead Permission = "reports:read"

	PermSettingsRead  Permission = "settings:read"
	PermSettingsWrite Permission = "settings:write"

	PermUsersRead   Permission = "users:read"
	PermUsersWrite  Permission = "users:write"
	PermUsersDelete Permission = "users:delete"
)

// AllPermissions enumerates the full catalog.
var AllPermissions = []Permission{
	PermOrdersRead, PermOrdersWrite, PermOrdersDelete, PermOrdersApprove,
	PermProductsRead, PermProductsWrite, PermProductsDelete,
	PermCustomersRead, PermCustomersWrite,
	PermCouponsRead, PermCouponsWrite, PermCouponsDelete,
	PermRefundsRead, PermRefundsWrite, PermRefundsApprove,
	PermReportsRead,
	PermSettingsRead, PermSettingsWrite,
	PermUsersRead, PermUsersWrite, PermUsersDelete,
}

// Default role grants. These seed the role_permissions table during
// migration. The resolver never reads these at request time: live
// grants come from the directory so revocations apply on the very next
// request.

// AdminGrants covers the entire catalog.
var AdminGrants = AllPermissions

// ManagerGrants covers catalog and order operations.
var ManagerGrants = []Permission{
	PermOrdersRead, PermOrdersWrite, PermOrdersApprove,
	PermProductsRead, PermProductsWrite, PermProductsDelete,
	PermCustomersRead, PermCustomersWrite,
	PermCouponsRead, PermCouponsWrite, PermCouponsDelete,
	PermRefundsRead, PermRefundsWrite,
	PermReportsRead,
}

// AccountantGrants covers financial review and refund approval.
var AccountantGrants = []Permission{
	PermOrdersRead,
	PermRefundsRead, PermRefundsWrite, PermRefundsApprove,
	PermReportsRead,
	PermSettingsRead,
}

// ViewerGrants is read-only.
var ViewerGrants = []Permission{
	PermOrdersRead,
	PermProductsRead,
	PermCustomersRead,
	PermCouponsRead,
	PermRefundsRead,
	PermReportsRead,
}

// DefaultGrants maps each role to its seeded permission list.
var DefaultGrants = map[Role][]Permission{
	RoleAdmin:      AdminGrants,
	RoleManager:    ManagerGrants,
	RoleAccountant: AccountantGrants,
	RoleViewer:     ViewerGrants,
}

// PermissionSet is an unordered, duplicate-free collection of
// permissions.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from a slice, discarding duplicates.
func NewPermissionSet(perms []Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has reports membership of a single permission.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}
