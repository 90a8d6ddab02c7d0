package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"github.com/arjunkapoor/chatbot-lead-service/internal/conversation"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/redis"
)

// HealthHandler reports service health. The fallback store is the only hard
// dependency; a dead cache only degrades the status, and the session store
// adds an occupancy gauge.
type HealthHandler struct {
	db           *sqlx.DB
	redis        *redis.Client
	sessions     *conversation.Store
	checkTimeout time.Duration
}

func NewHealthHandler(db *sqlx.DB, redisClient *redis.Client, sessions *conversation.Store) *HealthHandler {
	return &HealthHandler{
		db:           db,
		redis:        redisClient,
		sessions:     sessions,
		checkTimeout: 2 * time.Second,
	}
}

// Health returns overall status plus fallback-store and cache connectivity.
// @Summary Health check
// @Description Returns overall status with fallback store and cache connectivity and the live session count
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.checkTimeout)
	defer cancel()

	overallStatus := "ok"

	fallbackStatus := "up"
	if h.db == nil {
		fallbackStatus = "down"
		overallStatus = "down"
	} else if err := h.db.PingContext(ctx); err != nil {
		fallbackStatus = "down"
		overallStatus = "down"
	}

	cacheStatus := "disabled"
	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			cacheStatus = "down"
			overallStatus = "degraded"
		} else {
			cacheStatus = "up"
		}
	}

	components := map[string]any{
		"fallbackStore": map[string]any{
			"status": fallbackStatus,
		},
		"leadCache": map[string]any{
			"status": cacheStatus,
		},
	}

	if h.sessions != nil {
		components["chatSessions"] = map[string]any{
			"status": "up",
			"active": h.sessions.Count(),
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":     overallStatus,
		"timestamp":  time.Now().Format(time.RFC3339),
		"components": components,
	})
}
