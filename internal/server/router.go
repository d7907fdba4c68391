package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atolz-bro/usermanagementservice/internal/server/auth"
	"github.com/atolz-bro/usermanagementservice/internal/server/handlers"
	"github.com/atolz-bro/usermanagementservice/internal/server/middleware"
	"github.com/atolz-bro/usermanagementservice/internal/server/storage"
)

// RouterDeps собирает зависимости HTTP слоя
type RouterDeps struct {
	Logger   *slog.Logger
	Store    storage.UserStorage
	Verifier handlers.CredentialVerifier
	Codec    interface {
		handlers.TokenIssuer
		middleware.TokenDecoder
		middleware.SubjectExtractor
	}
	Hasher handlers.PasswordHasher
	// Limiter ограничивает POST /api/auth/login. nil отключает ограничение.
	Limiter  middleware.Limiter
	Registry *prometheus.Registry
	Version  string
	// LookupTimeout ограничивает поиск пользователя по токену.
	LookupTimeout time.Duration
}

// NewRouter registers the API routes and wraps them in the middleware chain:
// request ID, recovery, logging, metrics, login rate limit, authentication,
// authorization.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	policy := auth.NewPolicy(auth.DefaultPublicRoutes()...)
	metrics := middleware.NewMetrics(deps.Registry)

	authHandler := handlers.NewAuthHandler(logger, deps.Verifier, deps.Codec)
	userHandler := handlers.NewUserHandler(logger, deps.Store, deps.Hasher)
	healthHandler := handlers.NewHealthHandler(logger, deps.Store, deps.Version)

	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/health", healthHandler.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	// Protected endpoints (require JWT)
	mux.HandleFunc("POST /api/users", userHandler.Create)
	mux.HandleFunc("GET /api/users/{id}", userHandler.Get)
	mux.HandleFunc("PUT /api/users/{id}", userHandler.Update)
	mux.HandleFunc("DELETE /api/users/{id}", userHandler.Delete)

	var handler http.Handler = mux
	handler = middleware.Authorize(logger, policy)(handler)
	handler = middleware.AuthMiddleware(logger, middleware.AuthConfig{
		Decoder:       deps.Codec,
		Users:         deps.Store,
		OnOutcome:     metrics.ObserveAuth,
		LookupTimeout: deps.LookupTimeout,
	})(handler)
	if deps.Limiter != nil {
		handler = middleware.RateLimitMiddleware(deps.Limiter, logger, auth.RouteLogin)(handler)
	}
	route := middleware.MuxRoute(mux)
	handler = metrics.Middleware(route)(handler)
	handler = middleware.LoggingWithSkip(logger,
		[]string{auth.RouteHealth.Path, auth.RouteMetrics.Path},
		middleware.WithRoute(route),
		middleware.WithSubjects(deps.Codec),
	)(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)
	handler = middleware.RequestIDMiddleware()(handler)

	return handler
}
