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

import "fmt"

// Role is one of the fixed admin-console access tiers. The set is closed:
// roles are not created or renamed at runtime, only their permission
// grants change (in the directory's role_permissions table).
type Role string

const (
	// RoleAdmin has the highest rank and is also the role assumed by
	// static-API-key callers.
	RoleAdmin Role = "admin"

	// RoleManager covers day-to-day catalog and order operations.
	RoleManager Role = "manager"

	// RoleAccountant covers financial review and refund approval.
	RoleAccountant Role = "accountant"

	// RoleViewer is read-only.
	RoleViewer Role = "viewer"
)

// roleRanks defines the total order used by RequireMinRole.
// admin > manager > accountant > viewer. The manager/accountant ordering
// is a deliberate choice; only comparisons against admin and viewer are
// forced by the rest of the system.
var roleRanks = map[Role]int{
	RoleAdmin:      4,
	RoleManager:    3,
	RoleAccountant: 2,
	RoleViewer:     1,
}

// Roles lists every role, highest rank first.
var Roles = []Role{RoleAdmin, RoleManager, RoleAccountant, RoleViewer}

// Rank returns the role's position in the fixed priority order.
// Unknown roles rank below every real role.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// AtLeast reports whether r ranks at or above min.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}

// ParseRole converts a stored role string into a Role, rejecting
// anything outside the closed set. Directory rows carrying an unknown
// role are a data-integrity fault, not a deniable request.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
