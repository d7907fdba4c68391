package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/atolz-bro/usermanagementservice/internal/models"
	"github.com/atolz-bro/usermanagementservice/internal/server/auth"
	"github.com/atolz-bro/usermanagementservice/internal/server/httpx"
	"github.com/atolz-bro/usermanagementservice/pkg/api"
)

// InvalidCredentialsMessage is the plain text 401 body of a failed login.
const InvalidCredentialsMessage = "Invalid credentials"

// maxBodyBytes ограничивает размер JSON тела запроса
const maxBodyBytes = 1 << 20

// CredentialVerifier checks a username/password pair.
type CredentialVerifier interface {
	Authenticate(ctx context.Context, username, password string) (*models.Principal, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(subject, role string) (string, error)
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger   *slog.Logger
	verifier CredentialVerifier
	issuer   TokenIssuer
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, verifier CredentialVerifier, issuer TokenIssuer) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		verifier: verifier,
		issuer:   issuer,
	}
}

// Login обрабатывает POST /api/auth/login
// Возвращает {"token": "..."} или 401 "Invalid credentials" без уточнения причины
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		httpx.Error(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	principal, err := h.verifier.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.WarnContext(ctx, "login failed", slog.String("username", req.Username))
			httpx.Text(w, http.StatusUnauthorized, InvalidCredentialsMessage)
			return
		}
		h.logger.ErrorContext(ctx, "failed to authenticate user", slog.Any("error", err))
		httpx.Error(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := h.issuer.Issue(principal.Subject, principal.Role)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue access token", slog.Any("error", err))
		httpx.Error(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "user logged in",
		slog.String("username", principal.Subject),
		slog.String("role", principal.Role),
	)

	httpx.JSON(w, h.logger, http.StatusOK, api.TokenResponse{Token: token})
}

// decodeJSON читает тело запроса с ограничением размера
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
