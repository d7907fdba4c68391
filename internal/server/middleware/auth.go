package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/atolz-bro/usermanagementservice/internal/models"
	"github.com/atolz-bro/usermanagementservice/internal/server/auth"
	"github.com/atolz-bro/usermanagementservice/internal/server/httpx"
	"github.com/atolz-bro/usermanagementservice/internal/server/jwt"
	"github.com/atolz-bro/usermanagementservice/internal/server/storage"
)

// InvalidTokenMessage is the 401 body for a present but unusable token.
const InvalidTokenMessage = "Unauthorized - Invalid or missing JWT token"

const bearerPrefix = "Bearer "

// Authentication outcomes reported to AuthConfig.OnOutcome.
const (
	OutcomeAnonymous     = "anonymous"
	OutcomeAuthenticated = "authenticated"
	OutcomeRejected      = "rejected"
	OutcomeError         = "error"
)

// TokenDecoder verifies a bearer token and returns its claims.
type TokenDecoder interface {
	Decode(token string) (*models.Claims, error)
}

// AuthConfig wires the request authenticator.
type AuthConfig struct {
	Decoder TokenDecoder
	Users   auth.UserFinder
	// OnOutcome, if set, is called once per request with one of the Outcome* values.
	OnOutcome func(outcome string)
	// LookupTimeout bounds the store lookup of the token subject. Zero means no bound.
	LookupTimeout time.Duration
}

// AuthMiddleware создает middleware, который устанавливает Principal в контекст
// запроса по Bearer токену. Запрос без токена проходит анонимно, решение о
// доступе принимает Authorize. Невалидный или просроченный токен, а также
// токен удаленного пользователя, дают 401 без вызова следующего обработчика.
func AuthMiddleware(logger *slog.Logger, cfg AuthConfig) func(http.Handler) http.Handler {
	report := cfg.OnOutcome
	if report == nil {
		report = func(string) {}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Principal уже установлен выше по цепочке
			if _, ok := auth.PrincipalFromContext(ctx); ok {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				report(OutcomeAnonymous)
				next.ServeHTTP(w, r)
				return
			}

			claims, err := cfg.Decoder.Decode(token)
			if err != nil {
				reason := "malformed"
				if errors.Is(err, jwt.ErrExpiredToken) {
					reason = "expired"
				}
				logger.WarnContext(ctx, "Rejected bearer token",
					slog.String("reason", reason),
					slog.String("path", r.URL.Path),
				)
				report(OutcomeRejected)
				httpx.Error(w, logger, http.StatusUnauthorized, InvalidTokenMessage)
				return
			}

			principal, err := resolve(ctx, cfg, claims)
			if err != nil {
				if errors.Is(err, auth.ErrPrincipalNotResolvable) {
					logger.WarnContext(ctx, "Token subject no longer exists",
						slog.String("username", claims.Subject),
					)
					report(OutcomeRejected)
					httpx.Error(w, logger, http.StatusUnauthorized, InvalidTokenMessage)
					return
				}
				logger.ErrorContext(ctx, "Failed to resolve token subject",
					slog.String("username", claims.Subject),
					slog.Any("error", err),
				)
				report(OutcomeError)
				httpx.Error(w, logger, http.StatusInternalServerError, "internal server error")
				return
			}

			if principal.Role != claims.Role {
				logger.InfoContext(ctx, "Token role differs from stored role",
					slog.String("username", principal.Subject),
					slog.String("token_role", claims.Role),
					slog.String("stored_role", principal.Role),
				)
			}

			logger.DebugContext(ctx, "User authenticated",
				slog.String("username", principal.Subject),
				slog.String("role", principal.Role),
			)
			report(OutcomeAuthenticated)

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(ctx, principal)))
		})
	}
}

// resolve загружает пользователя из хранилища; роль берется из хранилища, а не из токена
func resolve(ctx context.Context, cfg AuthConfig, claims *models.Claims) (*models.Principal, error) {
	if cfg.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LookupTimeout)
		defer cancel()
	}

	user, err := cfg.Users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, auth.ErrPrincipalNotResolvable
		}
		return nil, err
	}

	return &models.Principal{
		Subject: user.Username,
		Role:    user.Role,
	}, nil
}

// bearerToken возвращает токен из заголовка "Authorization: Bearer <token>".
// Любой другой заголовок означает отсутствие токена.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(bearerPrefix):]), true
}
