package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger пишет одну запись zap на каждый запрос.
func Logger(log *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
			log.Warn("request", fields...)
			return err
		}

		log.Info("request", fields...)
		return nil
	}
}
