package middleware

import (
	"log/slog"
	"net/http"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/apperror"
	"hrms/internal/transport/http/api"
)

// RequirePermission rejects callers whose role does not grant permission.
func RequirePermission(permission auth.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := GetRequestID(r.Context())
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, apperror.CodeUnauthorized, "authentication required", reqID)
				return
			}
			if !user.Role.Can(permission) {
				slog.Warn("permission denied", "userId", user.UserID, "role", user.Role, "permission", permission, "requestId", reqID)
				api.Fail(w, http.StatusForbidden, apperror.CodeForbidden, "insufficient permissions", reqID)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
