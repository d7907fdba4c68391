package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atolz-bro/usermanagementservice/internal/client/storage"
)

func createTestAuthStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "auth_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStorage_SaveGetDeleteAuth(t *testing.T) {
	ctx := context.Background()
	store := createTestAuthStorage(t)

	auth := &storage.AuthData{
		ServerURL: "http://localhost:8080",
		Username:  "admin",
		Token:     "header.payload.sig",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}

	_, err := store.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)

	require.NoError(t, store.SaveAuth(ctx, auth))

	got, err := store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, auth, got)

	require.NoError(t, store.DeleteAuth(ctx))

	_, err = store.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)

	assert.ErrorIs(t, store.DeleteAuth(ctx), storage.ErrAuthNotFound)
}

func TestStorage_SaveAuthOverwrites(t *testing.T) {
	ctx := context.Background()
	store := createTestAuthStorage(t)

	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{Username: "admin", Token: "one"}))
	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{Username: "user", Token: "two"}))

	got, err := store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user", got.Username)
	assert.Equal(t, "two", got.Token)
}

func TestStorage_IsAuthenticated(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		auth *storage.AuthData
		name string
		want bool
	}{
		{name: "no session", auth: nil, want: false},
		{name: "valid", auth: &storage.AuthData{Token: "t", ExpiresAt: time.Now().Add(time.Hour).Unix()}, want: true},
		{name: "expired", auth: &storage.AuthData{Token: "t", ExpiresAt: time.Now().Add(-time.Minute).Unix()}, want: false},
		{name: "unknown expiry", auth: &storage.AuthData{Token: "t"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestAuthStorage(t)
			if tt.auth != nil {
				require.NoError(t, store.SaveAuth(ctx, tt.auth))
			}

			ok, err := store.IsAuthenticated(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}
