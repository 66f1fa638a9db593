package authz

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrUserNotFound = errors.New("directory user not found")
)

// User is a persisted admin-directory record. Rows are owned by the
// store; this engine reads them and touches LastLoginAt, nothing else.
// A user resolves only while Active is true; an inactive row and a
// missing row are indistinguishable to the resolver.
type User struct {
	ID          string
	SubjectID   string // token subject for token-authenticated users
	Email       string
	Name        string
	Role        Role
	Active      bool
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DirectoryStore is the narrow read contract the authorization engine
// consumes from the persistent user/role directory.
type DirectoryStore interface {
	// FindActiveBySubject retrieves the active directory user for a
	// token subject. Returns ErrUserNotFound for missing AND inactive
	// rows; the two cases must not be distinguishable to callers.
	FindActiveBySubject(ctx context.Context, subjectID string) (*User, error)

	// PermissionsForRole retrieves the live permission grants for a
	// role. An empty result is valid, not an error.
	PermissionsForRole(ctx context.Context, role Role) ([]Permission, error)

	// TouchLastLogin records a login timestamp on the user's own row.
	// Failures here are advisory: callers log and continue.
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}
