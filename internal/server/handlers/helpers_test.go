package handlers

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/atolz-bro/usermanagementservice/internal/models"
	"github.com/atolz-bro/usermanagementservice/internal/server/storage"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// mockUserStorage is an in-memory storage.UserStorage for testing
type mockUserStorage struct {
	users   map[int64]*models.User
	err     error // возвращается всеми методами, если задан
	pingErr error
	nextID  int64
	mu      sync.Mutex
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[int64]*models.User)}
}

func (m *mockUserStorage) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) FindByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (m *mockUserStorage) Save(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for id, u := range m.users {
		if u.Username == user.Username && id != user.ID {
			return storage.ErrUserAlreadyExists
		}
	}
	if user.ID == 0 {
		m.nextID++
		user.ID = m.nextID
	} else if _, ok := m.users[user.ID]; !ok {
		return storage.ErrUserNotFound
	}
	c := *user
	m.users[user.ID] = &c
	return nil
}

func (m *mockUserStorage) DeleteByID(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[id]; !ok {
		return storage.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserStorage) ExistsByID(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.users[id]
	return ok, nil
}

func (m *mockUserStorage) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), m.err
}

func (m *mockUserStorage) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *mockUserStorage) Close() error {
	return nil
}

// stubHasher возвращает предсказуемый "хеш" без bcrypt
type stubHasher struct {
	err error
}

func (s stubHasher) Hash(password string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "hashed:" + password, nil
}

var errStoreDown = errors.New("store down")
