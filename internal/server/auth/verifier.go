// Package auth holds the authentication and authorization rules of the
// service: credential verification, the request principal and the route policy.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/atolz-bro/usermanagementservice/internal/crypto"
	"github.com/atolz-bro/usermanagementservice/internal/models"
	"github.com/atolz-bro/usermanagementservice/internal/server/storage"
)

// ErrInvalidCredentials is returned for both an unknown username and a wrong
// password so callers cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

//go:generate moq -out userfinder_mock.go . UserFinder

// UserFinder is the read side of storage.UserStorage needed for authentication.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Hasher produces the dummy hash compared for unknown usernames. It must use
// the same bcrypt cost as the stored hashes.
type Hasher interface {
	Hash(password string) (string, error)
}

// Verifier checks username/password pairs against stored bcrypt hashes.
type Verifier struct {
	users     UserFinder
	dummyHash string
}

// NewVerifier creates a Verifier backed by users.
func NewVerifier(users UserFinder, hasher Hasher) *Verifier {
	// Хеш для несуществующих пользователей, чтобы время ответа не зависело от username
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		panic(fmt.Sprintf("auth: failed to generate dummy hash: %v", err))
	}

	return &Verifier{
		users:     users,
		dummyHash: dummy,
	}
}

// Authenticate returns the principal for username when password matches the
// stored hash. The role is always taken from the store.
func (v *Verifier) Authenticate(ctx context.Context, username, password string) (*models.Principal, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := v.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			_ = crypto.VerifyPassword(password, v.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Битый хеш в хранилище тоже означает отказ, а не 500
	if err := crypto.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &models.Principal{
		Subject: user.Username,
		Role:    user.Role,
	}, nil
}
