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
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopfort/shopfort/internal/authz"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter assembles the admin-plane router. Pipeline order matters:
// health stays outside the auth stack, and every guarded route runs
// Authenticate -> LoadRBAC -> guard(s) -> handler.
func NewRouter(h *Handler, auth *Authenticator, rbac *RBAC, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check, reachable without credentials
	r.Get("/health", h.HealthCheck)

	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(rbac.LoadRBAC)

		r.With(rbac.RequireMinRole(authz.RoleViewer)).
			Get("/me", h.Me)

		r.Route("/users", func(r chi.Router) {
			r.With(rbac.RequirePermission(authz.PermUsersRead)).
				Get("/", h.ListUsers)
			r.With(rbac.RequirePermission(authz.PermUsersWrite)).
				Post("/", h.CreateUser)
			r.With(rbac.RequirePermission(authz.PermUsersWrite)).
				Post("/{id}/deactivate", h.DeactivateUser)
		})

		r.With(rbac.RequireRole(authz.RoleAdmin)).
			Get("/grants", h.ListGrants)

		r.With(rbac.RequirePermission(authz.PermOrdersRead)).
			Get("/orders", h.ListOrders)

		// Stacked guards: permission AND minimum role must both pass.
		r.With(
			rbac.RequirePermission(authz.PermRefundsApprove),
			rbac.RequireMinRole(authz.RoleAccountant),
		).Post("/refunds/{id}/approve", h.ApproveRefund)

		r.With(rbac.RequireRole(authz.RoleAdmin)).
			Get("/settings", h.GetSettings)

		// Download endpoints accept the admin key via query parameter;
		// see Authenticator.staticKey.
		r.Route("/exports", func(r chi.Router) {
			r.With(rbac.RequirePermission(authz.PermReportsRead)).
				Get("/users.csv", h.ExportUsersCSV)
		})
	})

	return r
}
