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

type HealthHandler struct {
	configuratorURL string
	client          *http.Client
	log             *zap.Logger
}

func NewHealthHandler(configuratorURL string, log *zap.Logger) *HealthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthHandler{
		configuratorURL: configuratorURL,
		client:          &http.Client{Timeout: 2 * time.Second},
		log:             log,
	}
}

// LivenessProbe проверяет, что приложение работает
func (h *HealthHandler) LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe проверяет готовность конфигуратора за gateway
func (h *HealthHandler) ReadinessProbe(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.configuratorURL+"/health/ready", nil)
	if err == nil {
		var resp *http.Response
		resp, err = h.client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return c.JSON(fiber.Map{
					"status": "ready",
				})
			}
		}
	}

	h.log.Warn("configurator not ready", zap.String("url", h.configuratorURL), zap.Error(err))
	return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
		"status":       "unavailable",
		"configurator": "down",
	})
}

// StartupProbe проверяет, что приложение успешно запустилось
func (h *HealthHandler) StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
