// Package server собирает HTTP сервер управления пользователями: хранилище,
// начальные аккаунты, JWT, middleware и graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/atolz-bro/usermanagementservice/internal/crypto"
	"github.com/atolz-bro/usermanagementservice/internal/server/auth"
	"github.com/atolz-bro/usermanagementservice/internal/server/config"
	"github.com/atolz-bro/usermanagementservice/internal/server/jwt"
	"github.com/atolz-bro/usermanagementservice/internal/server/middleware"
	"github.com/atolz-bro/usermanagementservice/internal/server/seed"
	"github.com/atolz-bro/usermanagementservice/internal/server/storage"
	"github.com/atolz-bro/usermanagementservice/internal/server/storage/boltdb"
	"github.com/atolz-bro/usermanagementservice/internal/server/storage/postgres"
	"github.com/atolz-bro/usermanagementservice/internal/server/storage/sqlite"
)

const (
	readHeaderTimeout = 5 * time.Second
	redisPingTimeout  = 2 * time.Second
)

// App is the configured server process.
type App struct {
	config  *config.Config
	logger  *slog.Logger
	version string
	// listening вызывается с фактическим адресом после net.Listen
	listening func(addr net.Addr)
}

// NewApp создает приложение из загруженной конфигурации
func NewApp(cfg *config.Config, logger *slog.Logger, version string) *App {
	return &App{
		config:    cfg,
		logger:    logger,
		version:   version,
		listening: func(net.Addr) {},
	}
}

// OpenStorage opens the user store selected by driver.
func OpenStorage(ctx context.Context, driver, dsn string) (storage.UserStorage, error) {
	var (
		store storage.UserStorage
		err   error
	)

	// отдельные присваивания, чтобы не вернуть typed nil в интерфейсе
	switch driver {
	case config.DriverSQLite:
		var s *sqlite.Storage
		if s, err = sqlite.New(ctx, dsn); err == nil {
			store = s
		}
	case config.DriverPostgres:
		var s *postgres.Storage
		if s, err = postgres.New(ctx, dsn); err == nil {
			store = s
		}
	case config.DriverBolt:
		var s *boltdb.Storage
		if s, err = boltdb.New(ctx, dsn); err == nil {
			store = s
		}
	default:
		err = fmt.Errorf("%w: %q", storage.ErrUnknownDriver, driver)
	}

	return store, err
}

// NewLimiter returns the login limiter described by cfg and a function that
// releases its resources. A zero LoginRateLimit disables limiting (nil Limiter).
// When RedisAddr is set but Redis does not answer, the in-memory limiter is used.
func NewLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (middleware.Limiter, func()) {
	if cfg.LoginRateLimit <= 0 {
		return nil, func() {}
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		err := client.Ping(pingCtx).Err()
		cancel()

		if err == nil {
			logger.InfoContext(ctx, "Using Redis login rate limiter", slog.String("addr", cfg.RedisAddr))
			limiter := middleware.NewRedisRateLimiter(client, cfg.LoginRateLimit, cfg.LoginRateWindow, logger)
			return limiter, func() { _ = client.Close() }
		}

		logger.WarnContext(ctx, "Redis rate limiter unavailable, falling back to memory",
			slog.String("addr", cfg.RedisAddr),
			slog.Any("error", err),
		)
		_ = client.Close()
	}

	limiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow, logger)
	return limiter, limiter.Stop
}

// seedAccounts returns the default accounts with passwords from cfg.
func seedAccounts(cfg *config.Config) []seed.Account {
	accounts := seed.DefaultAccounts()
	for i := range accounts {
		switch accounts[i].Username {
		case "admin":
			accounts[i].Password = cfg.SeedAdminPassword
		case "user":
			accounts[i].Password = cfg.SeedUserPassword
		}
	}
	return accounts
}

func (app *App) initSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()
}

// Run opens storage, seeds it if needed, and serves HTTP until ctx is done
// or the process receives SIGINT/SIGTERM/SIGQUIT.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.initSignalHandler(ctx, cancel)

	cfg := app.config
	if cfg.JWTSecret == config.DefaultJWTSecret {
		app.logger.WarnContext(ctx, "Dev mode: using the built-in JWT secret, tokens can be forged")
	}

	storage.SetMigrationLogger(app.logger)
	store, err := OpenStorage(ctx, cfg.StorageDriver, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			app.logger.Error("Failed to close storage", slog.Any("error", err))
		}
	}()

	hasher := crypto.NewPasswordHasher(cfg.BcryptCost)

	if cfg.Seed {
		n, err := seed.Run(ctx, store, hasher, app.logger, seedAccounts(cfg))
		if err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		if n > 0 {
			app.logger.InfoContext(ctx, "Default accounts created", slog.Int("count", n))
		}
	}

	codec, err := jwt.NewCodec(jwt.Config{
		Issuer: cfg.Issuer,
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.TokenTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create token codec: %w", err)
	}

	app.logger.InfoContext(ctx, "Token codec ready",
		slog.String("issuer", cfg.Issuer),
		slog.Duration("token_ttl", codec.TTL()),
	)

	limiter, stopLimiter := NewLimiter(ctx, cfg, app.logger)
	defer stopLimiter()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := NewRouter(RouterDeps{
		Logger:        app.logger,
		Store:         store,
		Verifier:      auth.NewVerifier(store, hasher),
		Codec:         codec,
		Hasher:        hasher,
		Limiter:       limiter,
		Registry:      registry,
		Version:       app.version,
		LookupTimeout: cfg.LookupTimeout,
	})

	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return app.serve(ctx, srv, ln)
}

func (app *App) serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("Server starting",
			slog.String("addr", ln.Addr().String()),
			slog.String("version", app.version),
		)
		errCh <- srv.Serve(ln)
	}()
	app.listening(ln.Addr())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		app.logger.Info("Server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}
