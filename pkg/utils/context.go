package utils

import (
	"context"
	"net/http"

	"hotel-booking/internal/data/entity"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

// SetUserContext attaches the authenticated user's id and role to the request
func SetUserContext(r *http.Request, userID uuid.UUID, role entity.UserRole) *http.Request {
	ctx := context.WithValue(r.Context(), UserIDKey, userID)
	ctx = context.WithValue(ctx, RoleKey, role)
	return r.WithContext(ctx)
}

// GetUserIDFromContext extracts user id from request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetRoleFromContext extracts the user role from request context
func GetRoleFromContext(ctx context.Context) (entity.UserRole, bool) {
	role, ok := ctx.Value(RoleKey).(entity.UserRole)
	return role, ok
}
