package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
)

// Seed provisions the bootstrap administrator when credentials are configured.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	return ensureUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword, "Administrator", auth.RoleAdmin)
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email, password, name string, role auth.Role) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE lower(email) = lower($1)", email).Scan(&id)
	if err == nil {
		return nil
	}
	if !IsNoRows(err) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, "INSERT INTO users (email, name, password_hash, role) VALUES ($1, $2, $3, $4)", email, name, hash, string(role))
	return err
}
