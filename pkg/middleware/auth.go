package middleware

import (
	"net/http"
	"strings"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
)

// Auth validates the bearer token and stores user id and role in context
func Auth(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				utils.ResponseUnauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				utils.ResponseUnauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := utils.ParseToken(parts[1], jwtSecret)
			if err != nil {
				logger.Debug("token rejected", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, utils.SetUserContext(r, claims.UserID, claims.Role))
		})
	}
}

// Admin rejects requests whose token does not carry the admin role.
// Must run after Auth.
func Admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := utils.GetRoleFromContext(r.Context())
		if !ok {
			utils.ResponseUnauthorized(w, "Missing authentication")
			return
		}
		if role != entity.RoleAdmin {
			utils.ResponseForbidden(w, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
