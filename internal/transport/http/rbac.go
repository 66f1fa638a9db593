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

package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopfort/shopfort/internal/audit"
	"github.com/shopfort/shopfort/internal/authz"
	"github.com/shopfort/shopfort/internal/observability/logger"
	"github.com/shopfort/shopfort/internal/observability/metrics"
)

// RBAC provides the authorization resolver middleware and the guard
// factories. LoadRBAC must be registered before any guard; guards are
// fail-closed and never recover from a missing identity.
type RBAC struct {
	resolver    *authz.Resolver
	auditLogger audit.Logger
	metrics     *metrics.AuthzMetrics
}

// NewRBAC creates the middleware set. metrics may be nil.
func NewRBAC(resolver *authz.Resolver, auditLogger audit.Logger, m *metrics.AuthzMetrics) *RBAC {
	return &RBAC{resolver: resolver, auditLogger: auditLogger, metrics: m}
}

// LoadRBAC resolves the request's authorization state and stores it in
// the request context, always overwriting any prior value. "No
// identity" and "unknown user" resolve to an explicit null; the denial
// happens later at a guard, so unguarded routes stay reachable.
// Directory failures surface as 500: a store outage must not look like
// a deliberate denial.
func (g *RBAC) LoadRBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, _ := AuthenticatedIdentityFromContext(r.Context())

		id, err := g.resolver.Resolve(r.Context(), caller)
		if err != nil {
			slog.ErrorContext(r.Context(), "authorization resolution failed",
				logger.Error(err),
				logger.Path(r.URL.Path),
			)
			respondError(w, http.StatusInternalServerError, "authorization unavailable")
			return
		}

		ctx := WithAuthorizedIdentity(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission passes callers holding ANY of the listed
// permissions. Missing identity yields 401. A confirmed identity
// lacking the permissions yields 403 naming the required list, the only
// response that reveals what is missing, and only after identity is
// established.
func (g *RBAC) RequirePermission(perms ...authz.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := g.identity(w, r, "permission")
			if !ok {
				return
			}
			if !authz.HasAnyPermission(id, perms) {
				g.deny(w, r, "permission", id,
					"Forbidden: requires one of ["+joinPermissions(perms)+"]")
				return
			}
			g.metrics.Granted(r.Context(), "permission")
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole passes callers whose role exactly matches ANY of the
// listed roles.
func (g *RBAC) RequireRole(roles ...authz.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := g.identity(w, r, "role")
			if !ok {
				return
			}
			if !authz.HasRole(id, roles) {
				g.deny(w, r, "role", id,
					"Forbidden: requires role one of ["+joinRoles(roles)+"]")
				return
			}
			g.metrics.Granted(r.Context(), "role")
			next.ServeHTTP(w, r)
		})
	}
}

// RequireMinRole passes callers whose role ranks at or above min on the
// fixed order admin > manager > accountant > viewer. Admin therefore
// always passes.
func (g *RBAC) RequireMinRole(min authz.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := g.identity(w, r, "min_role")
			if !ok {
				return
			}
			if !authz.HasMinRole(id, min) {
				g.deny(w, r, "min_role", id,
					"Forbidden: requires at least role "+string(min))
				return
			}
			g.metrics.Granted(r.Context(), "min_role")
			next.ServeHTTP(w, r)
		})
	}
}

// identity fetches the authorized identity for a guard. A missing
// context key means LoadRBAC never ran on this route, a wiring bug
// reported as 500, never as a denial. A present-but-nil identity is the
// legitimate "no access" state and terminates with 401, identical in
// shape for "no credential" and "unknown user" so the two cannot be
// told apart from outside.
func (g *RBAC) identity(w http.ResponseWriter, r *http.Request, guard string) (*authz.Identity, bool) {
	id, present := AuthorizedIdentityFromContext(r.Context())
	if !present {
		slog.ErrorContext(r.Context(), "guard reached without authorization context",
			logger.Path(r.URL.Path),
		)
		respondError(w, http.StatusInternalServerError, "authorization context not initialized")
		return nil, false
	}
	if id == nil {
		g.metrics.Denied(r.Context(), guard, http.StatusUnauthorized)
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	return id, true
}

func (g *RBAC) deny(w http.ResponseWriter, r *http.Request, guard string, id *authz.Identity, message string) {
	g.metrics.Denied(r.Context(), guard, http.StatusForbidden)
	g.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeAccessDenied,
		ActorID:   id.SubjectID,
		Role:      string(id.Role),
		Resource:  r.Method + " " + r.URL.Path,
		Reason:    message,
		IPAddress: getClientIP(r),
	})
	respondError(w, http.StatusForbidden, message)
}

func joinPermissions(perms []authz.Permission) string {
	parts := make([]string, len(perms))
	for i, p := range perms {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}

func joinRoles(roles []authz.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
