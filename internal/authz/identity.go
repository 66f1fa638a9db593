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

import "github.com/shopfort/shopfort/internal/authn"

// Identity is the resolved, high-trust authorization result for one
// request. It is only ever constructed for a caller with a resolvable,
// active directory entry (or the static-key short-circuit), never
// partially populated. A nil *Identity means "no access", which is a
// legitimate state, not an error.
type Identity struct {
	SubjectID   string
	Email       string
	Method      authn.Method
	Role        Role
	Permissions PermissionSet

	// User is the underlying directory row for token callers, kept for
	// display and audit. Nil for static-key callers.
	User *User
}

// HasPermission reports whether the identity holds p. A nil identity
// holds nothing.
func HasPermission(id *Identity, p Permission) bool {
	if id == nil {
		return false
	}
	return id.Permissions.Has(p)
}

// HasAnyPermission reports whether the identity holds at least one of
// the listed permissions. An empty list never grants access, regardless
// of identity.
func HasAnyPermission(id *Identity, perms []Permission) bool {
	if id == nil {
		return false
	}
	for _, p := range perms {
		if id.Permissions.Has(p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the identity holds every listed
// permission. A nil identity fails even for an empty list; a non-nil
// identity passes the empty list vacuously.
func HasAllPermissions(id *Identity, perms []Permission) bool {
	if id == nil {
		return false
	}
	for _, p := range perms {
		if !id.Permissions.Has(p) {
			return false
		}
	}
	return true
}

// HasRole reports whether the identity's role is one of the listed
// roles (exact match).
func HasRole(id *Identity, roles []Role) bool {
	if id == nil {
		return false
	}
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}

// HasMinRole reports whether the identity's role ranks at or above min
// on the fixed total order.
func HasMinRole(id *Identity, min Role) bool {
	if id == nil {
		return false
	}
	return id.Role.AtLeast(min)
}
