package middleware

import (
	"log/slog"
	"net/http"

	"github.com/atolz-bro/usermanagementservice/internal/server/auth"
	"github.com/atolz-bro/usermanagementservice/internal/server/httpx"
)

// Authorize применяет policy к каждому запросу после AuthMiddleware
func Authorize(logger *slog.Logger, policy *auth.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, _ := auth.PrincipalFromContext(r.Context())
			route := auth.Route{Method: r.Method, Path: r.URL.Path}

			if err := policy.Allow(route, principal); err != nil {
				logger.WarnContext(r.Context(), "Access denied",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("error", err),
				)
				httpx.Error(w, logger, http.StatusUnauthorized, err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
