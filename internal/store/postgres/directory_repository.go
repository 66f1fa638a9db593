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

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopfort/shopfort/internal/authz"
)

// DirectoryRepository implements authz.DirectoryStore
type DirectoryRepository struct {
	db *DB
}

// NewDirectoryRepository creates a new directory repository
func NewDirectoryRepository(db *DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// FindActiveBySubject retrieves the active directory user for a token
// subject. Inactive and missing rows both map to authz.ErrUserNotFound
// so callers cannot tell them apart.
func (r *DirectoryRepository) FindActiveBySubject(ctx context.Context, subjectID string) (*authz.User, error) {
	var user authz.User
	var role string
	var lastLoginAt sql.NullTime

	err := r.db.pool.QueryRow(ctx, `
		SELECT id, subject_id, email, name, role, active, last_login_at, created_at, updated_at
		FROM admin_users
		WHERE subject_id = $1 AND active
	`, subjectID).Scan(
		&user.ID, &user.SubjectID, &user.Email, &user.Name, &role,
		&user.Active, &lastLoginAt, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, authz.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get directory user: %w", err)
	}

	user.Role, err = authz.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("corrupt directory row for user %s: %w", user.ID, err)
	}

	if lastLoginAt.Valid {
		user.LastLoginAt = &lastLoginAt.Time
	}

	return &user, nil
}

// PermissionsForRole retrieves the live grants for a role. Zero rows is
// a valid result.
func (r *DirectoryRepository) PermissionsForRole(ctx context.Context, role authz.Role) ([]authz.Permission, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT permission
		FROM role_permissions
		WHERE role = $1
	`, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to query role permissions: %w", err)
	}
	defer rows.Close()

	var perms []authz.Permission
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		perms = append(perms, authz.Permission(p))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read role permissions: %w", err)
	}

	return perms, nil
}

// TouchLastLogin records a login timestamp on the user's row.
func (r *DirectoryRepository) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.pool.Exec(ctx, `
		UPDATE admin_users SET last_login_at = $2, updated_at = NOW()
		WHERE id = $1
	`, userID, at)
	if err != nil {
		return fmt.Errorf("failed to touch last login: %w", err)
	}
	return nil
}

// ListUsers retrieves all directory users for the admin user-management
// surface.
func (r *DirectoryRepository) ListUsers(ctx context.Context) ([]*authz.User, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, subject_id, email, name, role, active, last_login_at, created_at, updated_at
		FROM admin_users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query directory users: %w", err)
	}
	defer rows.Close()

	var users []*authz.User
	for rows.Next() {
		var user authz.User
		var role string
		var lastLoginAt sql.NullTime
		if err := rows.Scan(
			&user.ID, &user.SubjectID, &user.Email, &user.Name, &role,
			&user.Active, &lastLoginAt, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan directory user: %w", err)
		}
		user.Role, err = authz.ParseRole(role)
		if err != nil {
			return nil, fmt.Errorf("corrupt directory row for user %s: %w", user.ID, err)
		}
		if lastLoginAt.Valid {
			user.LastLoginAt = &lastLoginAt.Time
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read directory users: %w", err)
	}

	return users, nil
}

// CreateUser inserts a new directory user.
func (r *DirectoryRepository) CreateUser(ctx context.Context, user *authz.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO admin_users (id, subject_id, email, name, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.SubjectID, user.Email, user.Name, string(user.Role), user.Active, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert directory user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now

	return nil
}

// SetActive toggles a user's active flag. Deactivation takes effect on
// the subject's next request; the resolver holds no cache.
func (r *DirectoryRepository) SetActive(ctx context.Context, userID string, active bool) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE admin_users SET active = $2, updated_at = NOW()
		WHERE id = $1
	`, userID, active)
	if err != nil {
		return fmt.Errorf("failed to update directory user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return authz.ErrUserNotFound
	}

	return nil
}
