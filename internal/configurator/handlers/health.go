package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Health Check Handlers
// ============================================================

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db  Pinger
	log *zap.Logger
}

func NewHealthHandler(db Pinger, log *zap.Logger) *HealthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthHandler{db: db, log: log}
}

// LivenessProbe проверяет, что приложение работает
func (h *HealthHandler) LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe проверяет доступность базы проектов
func (h *HealthHandler) ReadinessProbe(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("readiness check failed", zap.Error(err))
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
		})
	}
	return c.JSON(fiber.Map{
		"status": "ready",
	})
}
