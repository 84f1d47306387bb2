package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hrms/internal/platform/apperror"
)

var ErrInvalidCredentials = apperror.New(apperror.CodeUnauthorized, "invalid credentials", http.StatusUnauthorized)

type Service struct {
	store  StoreAPI
	secret string
	ttl    time.Duration
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	return &Service{store: store, secret: secret, ttl: ttl}
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId"`
	Role      Role      `json:"role"`
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.store.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return LoginResult{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	token, err := GenerateToken(s.secret, Claims{UserID: user.ID, Role: user.Role}, s.ttl)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("update last login failed", "user_id", user.ID, "err", err)
	}
	return LoginResult{
		Token:     token,
		ExpiresAt: time.Now().Add(s.ttl),
		UserID:    user.ID,
		Role:      user.Role,
	}, nil
}
