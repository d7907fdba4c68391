package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/atolz-bro/usermanagementservice/internal/server/httpx"
	"github.com/atolz-bro/usermanagementservice/pkg/api"
)

const pingTimeout = 2 * time.Second

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	store   Pinger
	version string
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, store Pinger, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		store:   store,
		version: version,
	}
}

// Health обрабатывает GET /api/health
// 200 если хранилище доступно, иначе 503
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "health check failed", slog.Any("error", err))
		httpx.JSON(w, h.logger, http.StatusServiceUnavailable, api.HealthResponse{
			Status:  "unavailable",
			Version: h.version,
		})
		return
	}

	httpx.JSON(w, h.logger, http.StatusOK, api.HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}
