package authhandler

import (
	"context"
	"net/http"
	"strings"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/apperror"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (auth.LoginResult, error)
}

type Handler struct {
	Auth Authenticator
}

func NewHandler(authenticator Authenticator) *Handler {
	return &Handler{Auth: authenticator}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	v := shared.NewValidator()
	v.Struct("", payload)
	if v.Reject(w, reqID) {
		return
	}

	result, err := h.Auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, result, reqID)
}

// HandleMe echoes the authenticated caller.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, apperror.CodeUnauthorized, "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	perms := auth.RolePermissions[user.Role]
	api.Success(w, map[string]any{"userId": user.UserID, "role": user.Role, "permissions": perms}, middleware.GetRequestID(r.Context()))
}
