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

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopfort/shopfort/internal/authn"
	"github.com/shopfort/shopfort/internal/observability/logger"
)

// Resolver turns an authenticated identity into an authorized one by
// consulting the directory. It holds no per-request state and performs
// no cross-request caching: every call re-reads the directory, so a
// revoked grant or deactivated account is invisible to the very next
// request.
type Resolver struct {
	store DirectoryStore
	now   func() time.Time
}

// NewResolver creates a resolver backed by the given directory store.
func NewResolver(store DirectoryStore) *Resolver {
	return &Resolver{store: store, now: time.Now}
}

// Resolve produces the request's authorization result.
//
// A nil authenticated identity and an unknown or inactive directory
// user both resolve to (nil, nil): "no access" is a representable
// outcome, not an error. Errors are reserved for directory failures,
// which must surface as request-level failures rather than masquerade
// as denials.
func (r *Resolver) Resolve(ctx context.Context, caller *authn.Identity) (*Identity, error) {
	if caller == nil {
		return nil, nil
	}

	switch caller.Method {
	case authn.MethodStaticKey:
		return r.resolveStaticKey(ctx, caller)
	case authn.MethodToken:
		return r.resolveToken(ctx, caller)
	default:
		return nil, fmt.Errorf("unsupported authentication method %q", caller.Method)
	}
}

// resolveStaticKey short-circuits to the admin role but still reads the
// live admin grants: permission changes must take effect for key
// callers too, and an empty grant set (misconfigured directory) is a
// valid resolution, not an error.
func (r *Resolver) resolveStaticKey(ctx context.Context, caller *authn.Identity) (*Identity, error) {
	perms, err := r.store.PermissionsForRole(ctx, RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin permissions: %w", err)
	}

	return &Identity{
		SubjectID:   caller.SubjectID,
		Email:       caller.Email,
		Method:      authn.MethodStaticKey,
		Role:        RoleAdmin,
		Permissions: NewPermissionSet(perms),
	}, nil
}

func (r *Resolver) resolveToken(ctx context.Context, caller *authn.Identity) (*Identity, error) {
	user, err := r.store.FindActiveBySubject(ctx, caller.SubjectID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Deactivated or deleted accounts lose authorization
			// immediately, with no grace period.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up directory user: %w", err)
	}

	perms, err := r.store.PermissionsForRole(ctx, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to load permissions for role %q: %w", user.Role, err)
	}

	// Advisory telemetry: awaited so callers observe the update, but a
	// failure never fails the request.
	now := r.now()
	if err := r.store.TouchLastLogin(ctx, user.ID, now); err != nil {
		slog.WarnContext(ctx, "failed to touch last login",
			logger.UserID(user.ID),
			logger.Error(err),
		)
	} else {
		user.LastLoginAt = &now
	}

	return &Identity{
		SubjectID:   caller.SubjectID,
		Email:       user.Email,
		Method:      authn.MethodToken,
		Role:        user.Role,
		Permissions: NewPermissionSet(perms),
		User:        user,
	}, nil
}
