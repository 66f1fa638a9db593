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
	"context"

	"github.com/shopfort/shopfort/internal/authn"
	"github.com/shopfort/shopfort/internal/authz"
)

type contextKey string

const (
	authenticatedIdentityKey contextKey = "authenticated_identity"
	authorizedIdentityKey    contextKey = "authorized_identity"
)

// Both identity keys follow an explicit-null discipline: the middleware
// that owns a key always sets it, storing a nil pointer for "resolved
// to no access". The (value, present) accessors let guards distinguish
// that legitimate state from "the resolver never ran", which is a
// routing bug, not a denial.

// WithAuthenticatedIdentity stores the authentication result. id may be
// nil ("no credential").
func WithAuthenticatedIdentity(ctx context.Context, id *authn.Identity) context.Context {
	return context.WithValue(ctx, authenticatedIdentityKey, id)
}

// AuthenticatedIdentityFromContext retrieves the authentication result.
// present is false only when the authentication middleware never ran.
func AuthenticatedIdentityFromContext(ctx context.Context) (id *authn.Identity, present bool) {
	id, present = ctx.Value(authenticatedIdentityKey).(*authn.Identity)
	return id, present
}

// WithAuthorizedIdentity stores the authorization result, overwriting
// any prior value for this request. id may be nil ("no access").
func WithAuthorizedIdentity(ctx context.Context, id *authz.Identity) context.Context {
	return context.WithValue(ctx, authorizedIdentityKey, id)
}

// AuthorizedIdentityFromContext retrieves the authorization result.
// present is false only when LoadRBAC never ran.
func AuthorizedIdentityFromContext(ctx context.Context) (id *authz.Identity, present bool) {
	id, present = ctx.Value(authorizedIdentityKey).(*authz.Identity)
	return id, present
}
