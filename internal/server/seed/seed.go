// Package seed populates an empty user store with the default accounts.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atolz-bro/usermanagementservice/internal/crypto"
	"github.com/atolz-bro/usermanagementservice/internal/models"
	"github.com/atolz-bro/usermanagementservice/internal/server/storage"
)

// Account is a user created on first start.
type Account struct {
	Username string
	Password string
	Email    string
	Role     string
}

// DefaultAccounts returns the built-in admin and user accounts.
func DefaultAccounts() []Account {
	return []Account{
		{Username: "admin", Password: "admin123", Email: "admin@example.com", Role: models.RoleAdmin},
		{Username: "user", Password: "user123", Email: "user@example.com", Role: models.RoleUser},
	}
}

// Hasher hashes seed passwords.
type Hasher interface {
	Hash(password string) (string, error)
}

// Run inserts accounts when the store is empty. It returns the number of
// users created; a non-empty store is left untouched.
func Run(ctx context.Context, store storage.UserStorage, hasher Hasher, logger *slog.Logger, accounts []Account) (int, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	if n > 0 {
		logger.DebugContext(ctx, "Store already populated, skipping seed", slog.Int64("users", n))
		return 0, nil
	}

	created := 0
	for _, acc := range accounts {
		hash, err := hasher.Hash(acc.Password)
		if err != nil {
			return created, fmt.Errorf("failed to hash password for %q: %w", acc.Username, err)
		}

		user := &models.User{
			Username:     acc.Username,
			PasswordHash: hash,
			Email:        acc.Email,
			Role:         acc.Role,
			CreatedAt:    time.Now().UTC(),
		}
		if err := store.Save(ctx, user); err != nil {
			if errors.Is(err, storage.ErrUserAlreadyExists) {
				continue
			}
			return created, fmt.Errorf("failed to save %q: %w", acc.Username, err)
		}

		created++
		logger.InfoContext(ctx, "Seeded user",
			slog.String("username", user.Username),
			slog.String("role", user.Role),
			slog.Int64("id", user.ID),
		)
	}

	return created, nil
}

// PasswordHasher is the production Hasher
var _ Hasher = (*crypto.PasswordHasher)(nil)
