package http

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopfort/shopfort/internal/audit"
	"github.com/shopfort/shopfort/internal/authz"
	"github.com/shopfort/shopfort/internal/observability/logger"
)

// Directory is the admin-directory surface the handlers consume. It is
// implemented by the postgres directory repository.
type Directory interface {
	ListUsers(ctx context.Context) ([]*authz.User, error)
	CreateUser(ctx context.Context, user *authz.User) error
	SetActive(ctx context.Context, userID string, active bool) error
	PermissionsForRole(ctx context.Context, role authz.Role) ([]authz.Permission, error)
}

// Handler holds HTTP handlers and dependencies
type Handler struct {
	directory   Directory
	auditLogger audit.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(directory Directory, auditLogger audit.Logger) *Handler {
	return &Handler{
		directory:   directory,
		auditLogger: auditLogger,
	}
}

// HealthCheck responds to liveness probes. Registered before the auth
// pipeline on purpose.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// userResponse is the external shape of a directory user.
type userResponse struct {
	ID          string     `json:"id"`
	SubjectID   string     `json:"subject_id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toUserResponse(u *authz.User) userResponse {
	return userResponse{
		ID:          u.ID,
		SubjectID:   u.SubjectID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ListUsers returns every directory user.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.directory.ListUsers(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list directory users", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": out})
}

// CreateUserRequest is the payload for creating a directory user.
type CreateUserRequest struct {
	SubjectID string `json:"subject_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}

// CreateUser inserts a directory user. The new user's grants apply on
// their first request; nothing is cached.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SubjectID == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "subject_id and email are required")
		return
	}

	role, err := authz.ParseRole(req.Role)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid role")
		return
	}

	user := &authz.User{
		SubjectID: req.SubjectID,
		Email:     req.Email,
		Name:      req.Name,
		Role:      role,
		Active:    true,
	}
	if err := h.directory.CreateUser(r.Context(), user); err != nil {
		slog.ErrorContext(r.Context(), "failed to create directory user", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeUserCreated,
		ActorID:   actorID(r.Context()),
		Resource:  "user:" + user.ID,
		IPAddress: getClientIP(r),
	})

	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

// DeactivateUser flips a user's active flag off. The subject's next
// request resolves to no access; there is no grace period.
func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	if err := h.directory.SetActive(r.Context(), userID, false); err != nil {
		if err == authz.ErrUserNotFound {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		slog.ErrorContext(r.Context(), "failed to deactivate directory user", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to deactivate user")
		return
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeUserDeactivated,
		ActorID:   actorID(r.Context()),
		Resource:  "user:" + userID,
		IPAddress: getClientIP(r),
	})

	respondJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

// ListGrants returns the live role -> permission table, per role.
func (h *Handler) ListGrants(w http.ResponseWriter, r *http.Request) {
	grants := make(map[string][]string, len(authz.Roles))
	for _, role := range authz.Roles {
		perms, err := h.directory.PermissionsForRole(r.Context(), role)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to list role grants", logger.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to list grants")
			return
		}
		out := make([]string, 0, len(perms))
		for _, p := range perms {
			out = append(out, string(p))
		}
		grants[string(role)] = out
	}
	respondJSON(w, http.StatusOK, map[string]any{"grants": grants})
}

// Me returns the caller's own authorization state, for the admin UI to
// decide what to render.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := AuthorizedIdentityFromContext(r.Context())
	if id == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	perms := make([]string, 0, len(id.Permissions))
	for p := range id.Permissions {
		perms = append(perms, string(p))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"subject_id":  id.SubjectID,
		"email":       id.Email,
		"method":      string(id.Method),
		"role":        string(id.Role),
		"permissions": perms,
	})
}

// The order, refund, and settings endpoints below are the guard
// consumers for the storefront domains. They return placeholder bodies;
// the domain services live in their own deployables and only the
// authorization contract is owned here.

// ListOrders is the read surface guarded by orders:read.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"orders": []any{}})
}

// ApproveRefund is guarded by refunds:approve stacked on a minimum role
// of accountant, the one route where both guard kinds apply.
func (h *Handler) ApproveRefund(w http.ResponseWriter, r *http.Request) {
	refundID := chi.URLParam(r, "id")

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeAccessGranted,
		ActorID:   actorID(r.Context()),
		Resource:  "refund:" + refundID,
		IPAddress: getClientIP(r),
	})
	respondJSON(w, http.StatusAccepted, map[string]string{
		"refund_id": refundID,
		"status":    "approval_recorded",
	})
}

// GetSettings is guarded by exact role admin.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"settings": map[string]any{}})
}

// ExportUsersCSV streams the directory as CSV. This is the
// download-style endpoint reachable with the key in the query string.
func (h *Handler) ExportUsersCSV(w http.ResponseWriter, r *http.Request) {
	users, err := h.directory.ListUsers(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to export directory users", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to export users")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="users.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "subject_id", "email", "name", "role", "active", "last_login_at"})
	for _, u := range users {
		lastLogin := ""
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.Format(time.RFC3339)
		}
		active := "false"
		if u.Active {
			active = "true"
		}
		_ = cw.Write([]string{u.ID, u.SubjectID, u.Email, u.Name, string(u.Role), active, lastLogin})
	}
	cw.Flush()
}

// actorID extracts the acting subject for audit records.
func actorID(ctx context.Context) string {
	if id, _ := AuthorizedIdentityFromContext(ctx); id != nil {
		return id.SubjectID
	}
	return ""
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
