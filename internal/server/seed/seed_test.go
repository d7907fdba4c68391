package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/atolz-bro/usermanagementservice/internal/crypto"
	"github.com/atolz-bro/usermanagementservice/internal/models"
	"github.com/atolz-bro/usermanagementservice/internal/server/storage/sqlite"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupTestStorage(t *testing.T) *sqlite.Storage {
	t.Helper()
	s, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRun_EmptyStore(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)
	hasher := crypto.NewPasswordHasher(bcrypt.MinCost)

	created, err := Run(ctx, store, hasher, setupTestLogger(), DefaultAccounts())
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	admin, err := store.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(1), admin.ID)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NotEqual(t, "admin123", admin.PasswordHash)
	assert.NoError(t, crypto.VerifyPassword("admin123", admin.PasswordHash))

	user, err := store.FindByUsername(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NoError(t, crypto.VerifyPassword("user123", user.PasswordHash))
}

func TestRun_NonEmptyStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)
	hasher := crypto.NewPasswordHasher(bcrypt.MinCost)

	require.NoError(t, store.Save(ctx, &models.User{Username: "existing", PasswordHash: "h", Email: "e", Role: "USER"}))

	created, err := Run(ctx, store, hasher, setupTestLogger(), DefaultAccounts())
	require.NoError(t, err)
	assert.Zero(t, created)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)
	hasher := crypto.NewPasswordHasher(bcrypt.MinCost)

	_, err := Run(ctx, store, hasher, setupTestLogger(), DefaultAccounts())
	require.NoError(t, err)
	created, err := Run(ctx, store, hasher, setupTestLogger(), DefaultAccounts())
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestRun_EmptyPasswordFails(t *testing.T) {
	store := setupTestStorage(t)
	hasher := crypto.NewPasswordHasher(bcrypt.MinCost)

	_, err := Run(context.Background(), store, hasher, setupTestLogger(), []Account{{Username: "x", Role: "USER"}})
	assert.ErrorIs(t, err, crypto.ErrEmptyPassword)
}
