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
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfort/shopfort/internal/audit"
	"github.com/shopfort/shopfort/internal/authn"
)

const testJWTSecret = "test-jwt-secret-for-auth-middleware"

func newTestAuthenticator(t *testing.T, adminKey string) *Authenticator {
	t.Helper()
	return NewAuthenticator(
		authn.NewJWTVerifier([]byte(testJWTSecret)),
		authn.NewKeyChecker(adminKey),
		AuthenticatorConfig{
			KeyHeader:        "X-Admin-API-Key",
			KeyQueryParam:    "api_key",
			KeyQueryPrefixes: []string{"/admin/exports/"},
		},
		audit.NewSlogLogger(),
	)
}

func signTestToken(t *testing.T, subject string, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": subject + "@example.com",
		"exp":   expiry.Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

// capture records the authenticated identity the middleware installed.
func capture(id **authn.Identity, present *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*id, *present = AuthenticatedIdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_NoCredentials(t *testing.T) {
	auth := newTestAuthenticator(t, "sekret")

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	w := httptest.NewRecorder()

	var id *authn.Identity
	var present bool
	auth.Authenticate(capture(&id, &present)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, present, "handler must not run")
}

func TestAuthenticate_ValidBearerToken(t *testing.T) {
	auth := newTestAuthenticator(t, "sekret")

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "user_42", time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()

	var id *authn.Identity
	var present bool
	auth.Authenticate(capture(&id, &present)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, present)
	require.NotNil(t, id)
	assert.Equal(t, "user_42", id.SubjectID)
	assert.Equal(t, "user_42@example.com", id.Email)
	assert.Equal(t, authn.MethodToken, id.Method)
}

func TestAuthenticate_ValidKeyHeader(t *testing.T) {
	auth := newTestAuthenticator(t, "sekret")

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("X-Admin-API-Key", "sekret")
	w := httptest.NewRecorder()

	var id *authn.Identity
	var present bool
	auth.Authenticate(capture(&id, &present)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, id)
	assert.Equal(t, authn.StaticKeySubject, id.SubjectID)
	assert.Equal(t, authn.MethodStaticKey, id.Method)
}

func TestAuthenticate_WrongKeyRejected(t *testing.T) {
	auth := newTestAuthenticator(t, "sekret")

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("X-Admin-API-Key", "not-the-key")
	w := httptest.NewRecorder()

	auth.Authenticate(okHandler()).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// An expired token does not end the attempt: a valid static key sent
// alongside it still authenticates the request.
func TestAuthenticate_ExpiredTokenFallsThroughToKey(t *testing.T) {
	auth := newTestAuthenticator(t, "sekret")

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "user_42", time.Now().Add(-time.Hour)))
	req.Header.Set("X-Admin-API-Key", "sekret")
	w := httptest.NewRecorder()

	var id *authn.Identity
	var present bool
	auth.Authenticate(capture(&id, &present)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, id)
	assert.Equal(t, authn.MethodStaticKey, id.Method)
}

func TestAuthenticate_ExpiredTokenAloneRejected(t *testing.T) {
	auth := newTestAuthenticator(t, "sekret")

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "user_42", time.Now().Add(-time.Hour)))
	w := httptest.NewRecorder()

	auth.Authenticate(okHandler()).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_QueryParamKey(t *testing.T) {
	auth := newTestAuthenticator(t, "sekret")

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"allowed on export prefix", "/admin/exports/users.csv?api_key=sekret", http.StatusOK},
		{"ignored elsewhere", "/admin/users?api_key=sekret", http.StatusUnauthorized},
		{"wrong key on export prefix", "/admin/exports/users.csv?api_key=bad", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()
			auth.Authenticate(okHandler()).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

// OptionalAuthenticate never rejects; it installs an explicit nil for
// anonymous callers so downstream code can tell "anonymous" from
// "middleware never ran".
func TestOptionalAuthenticate_AnonymousSetsExplicitNil(t *testing.T) {
	auth := newTestAuthenticator(t, "sekret")

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	w := httptest.NewRecorder()

	var id *authn.Identity
	var present bool
	auth.OptionalAuthenticate(capture(&id, &present)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, present, "identity key must be set even for anonymous callers")
	assert.Nil(t, id)
}

// Hashed-at-rest secrets accept the raw key at the transport edge.
func TestAuthenticate_HashedKeySecret(t *testing.T) {
	encoded, err := authn.HashKey("sekret")
	require.NoError(t, err)
	auth := newTestAuthenticator(t, encoded)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("X-Admin-API-Key", "sekret")
	w := httptest.NewRecorder()

	auth.Authenticate(okHandler()).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
