package auth

import (
	"context"

	"leadpilot_backend/internal/auth/password"
	"leadpilot_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureAdmin seeds the platform admin account from configuration so the
// admin endpoints work on a fresh database. An existing account with the
// same email is left untouched.
func EnsureAdmin(ctx context.Context, pool *pgxpool.Pool, email, plainPassword string, log *logger.Logger) error {
	if email == "" || plainPassword == "" {
		return nil
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx, `
		INSERT INTO users (email, password_hash, name, role)
		VALUES ($1, $2, 'Administrator', 'admin')
		ON CONFLICT (email) DO NOTHING
	`, email, hash)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 1 {
		log.Info("seeded admin account", "email", email)
	}
	return nil
}
