package storage

import (
	"context"
	"time"
)

//go:generate moq -out authstorage_mock.go . AuthStorage

// AuthStorage keeps the admin client's session between invocations.
type AuthStorage interface {
	// SaveAuth replaces the stored session.
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth returns ErrAuthNotFound if no session exists.
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes the session (logout).
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated reports whether a non-expired session exists.
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData is the session saved after a successful login.
// Token is the bearer token as issued by the server.
type AuthData struct {
	ServerURL string `json:"server_url"`
	Username  string `json:"username"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// Expired reports whether the token expiry has passed at now.
// A zero ExpiresAt means the expiry is unknown and is treated as valid.
func (a *AuthData) Expired(now time.Time) bool {
	return a.ExpiresAt != 0 && !now.Before(time.Unix(a.ExpiresAt, 0))
}
