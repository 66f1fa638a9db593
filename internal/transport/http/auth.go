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
	"github.com/shopfort/shopfort/internal/authn"
	"github.com/shopfort/shopfort/internal/observability/logger"
)

// Authenticator resolves transport credentials into an authenticated
// identity: bearer tokens first, then the static admin key.
type Authenticator struct {
	verifier         authn.TokenVerifier
	keys             *authn.KeyChecker
	keyHeader        string
	keyQueryParam    string
	keyQueryPrefixes []string
	auditLogger      audit.Logger
}

// AuthenticatorConfig configures credential extraction.
type AuthenticatorConfig struct {
	KeyHeader        string
	KeyQueryParam    string
	KeyQueryPrefixes []string
}

// NewAuthenticator creates an authenticator. verifier may be nil when
// token auth is not configured; keys always rejects when built from an
// empty secret.
func NewAuthenticator(verifier authn.TokenVerifier, keys *authn.KeyChecker, cfg AuthenticatorConfig, auditLogger audit.Logger) *Authenticator {
	return &Authenticator{
		verifier:         verifier,
		keys:             keys,
		keyHeader:        cfg.KeyHeader,
		keyQueryParam:    cfg.KeyQueryParam,
		keyQueryPrefixes: cfg.KeyQueryPrefixes,
		auditLogger:      auditLogger,
	}
}

// Authenticate is the enforcing middleware: unauthenticated requests
// terminate with 401. The identity key is always set, to nil on
// failure, so downstream stages never confuse "not yet computed" with
// "anonymous".
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := a.resolve(r)
		ctx := WithAuthenticatedIdentity(r.Context(), id)
		if id == nil {
			a.auditLogger.Log(ctx, audit.Event{
				Type:      audit.TypeAuthFailed,
				Resource:  r.Method + " " + r.URL.Path,
				IPAddress: getClientIP(r),
				UserAgent: r.UserAgent(),
			})
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if id.Method == authn.MethodStaticKey {
			a.auditLogger.Log(ctx, audit.Event{
				Type:      audit.TypeStaticKeyAccess,
				ActorID:   id.SubjectID,
				Resource:  r.Method + " " + r.URL.Path,
				IPAddress: getClientIP(r),
			})
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthenticate is the non-enforcing variant for routes that
// want best-effort identity without rejecting anonymous callers.
func (a *Authenticator) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithAuthenticatedIdentity(r.Context(), a.resolve(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolve tries each credential in order. A failed token verification
// falls through to key auth rather than failing immediately: stale
// clients routinely send expired tokens alongside a valid key.
func (a *Authenticator) resolve(r *http.Request) *authn.Identity {
	if token := bearerToken(r); token != "" && a.verifier != nil {
		claims, err := a.verifier.Verify(r.Context(), token)
		if err == nil {
			return &authn.Identity{
				SubjectID: claims.SubjectID,
				Email:     claims.Email,
				Method:    authn.MethodToken,
			}
		}
		slog.DebugContext(r.Context(), "bearer token rejected, trying static key",
			logger.Error(err),
		)
	}

	if key := a.staticKey(r); key != "" && a.keys.Check(key) {
		return authn.StaticKeyIdentity()
	}

	return nil
}

// staticKey extracts the admin key from the fixed header, or from the
// query parameter on allow-listed download paths only (browser-driven
// downloads cannot set custom headers).
func (a *Authenticator) staticKey(r *http.Request) string {
	if key := r.Header.Get(a.keyHeader); key != "" {
		return key
	}
	for _, prefix := range a.keyQueryPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return r.URL.Query().Get(a.keyQueryParam)
		}
	}
	return ""
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
