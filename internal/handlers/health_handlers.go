package handlers

import (
	"context"
	"net/http"
	"time"

	"caretrack/internal/caching"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandlers struct {
	db    Pinger
	cache caching.CacheService
}

func NewHealthHandlers(db Pinger, cache caching.CacheService) *HealthHandlers {
	return &HealthHandlers{db: db, cache: cache}
}

// Health handles GET /health and reports per-dependency status.
func (h *HealthHandlers) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{"database": "ok", "cache": "ok"}

	if err := h.db.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := h.cache.Ping(ctx); err != nil {
		checks["cache"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, map[string]any{
		"status": http.StatusText(status),
		"checks": checks,
		"time":   time.Now().UTC(),
	})
}
