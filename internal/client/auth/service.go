// Package auth управляет сессией администратора в CLI клиенте:
// логин через API, хранение токена в локальной БД, logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/atolz-bro/usermanagementservice/internal/client/storage"
	pkgapi "github.com/atolz-bro/usermanagementservice/pkg/api"
)

// ErrNotAuthenticated means there is no usable saved session.
var ErrNotAuthenticated = errors.New("not authenticated, run 'login' first")

//go:generate moq -out loginclient_mock.go . LoginClient

// LoginClient is the part of the API client the session service needs.
type LoginClient interface {
	Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error)
}

// Service предоставляет функции авторизации
type Service struct {
	api       LoginClient
	store     storage.AuthStorage
	now       func() time.Time
	serverURL string
}

// NewService создает новый сервис авторизации для сервера serverURL
func NewService(api LoginClient, store storage.AuthStorage, serverURL string) *Service {
	return &Service{
		api:       api,
		store:     store,
		now:       time.Now,
		serverURL: serverURL,
	}
}

// Login аутентифицируется на сервере и сохраняет токен
func (s *Service) Login(ctx context.Context, username, password string) (*storage.AuthData, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	resp, err := s.api.Login(ctx, pkgapi.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	session := &storage.AuthData{
		ServerURL: s.serverURL,
		Username:  username,
		Token:     resp.Token,
		ExpiresAt: tokenExpiry(resp.Token),
	}

	if err := s.store.SaveAuth(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save auth data: %w", err)
	}

	return session, nil
}

// Logout удаляет локальную сессию. Отсутствие сессии не ошибка.
// Сервер stateless, уведомлять его не нужно.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return fmt.Errorf("failed to delete auth data: %w", err)
	}
	return nil
}

// Session returns the saved session for the configured server.
// It returns ErrNotAuthenticated when there is none, when it has expired,
// or when it was issued by a different server.
func (s *Service) Session(ctx context.Context) (*storage.AuthData, error) {
	session, err := s.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to get auth data: %w", err)
	}

	if session.Expired(s.now()) {
		return nil, fmt.Errorf("%w: token expired", ErrNotAuthenticated)
	}
	if session.ServerURL != "" && s.serverURL != "" && session.ServerURL != s.serverURL {
		return nil, fmt.Errorf("%w: session belongs to %s", ErrNotAuthenticated, session.ServerURL)
	}

	return session, nil
}

// Stored returns the saved session as is, expired or not.
func (s *Service) Stored(ctx context.Context) (*storage.AuthData, error) {
	session, err := s.store.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return nil, ErrNotAuthenticated
	}
	return session, err
}

// tokenExpiry читает exp из токена без проверки подписи: секрет есть
// только у сервера, а клиенту срок нужен лишь для подсказки пользователю.
// Возвращает 0, если exp не удалось прочитать.
func tokenExpiry(token string) int64 {
	var claims jwtlib.RegisteredClaims
	if _, _, err := jwtlib.NewParser().ParseUnverified(token, &claims); err != nil {
		return 0
	}
	if claims.ExpiresAt == nil {
		return 0
	}
	return claims.ExpiresAt.Unix()
}
