package main

import (
	"fmt"
	"os"

	"pv-configurator/internal/common/config"
	"pv-configurator/internal/common/logger"
	"pv-configurator/internal/common/middleware"
	"pv-configurator/internal/gateway/handlers"
	"pv-configurator/internal/gateway/proxy"
	"pv-configurator/internal/gateway/pvgis"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Named("gateway")

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		AppName:      "PV Configurator Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger(log))
	app.Use(middleware.CORS(cfg.Server.CORSOrigins...))

	// ============================================================
	// Health Check Routes
	// ============================================================

	health := handlers.NewHealthHandler(cfg.Services.ConfiguratorURL, log)
	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe)
	app.Get("/health/startup", health.StartupProbe)

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "PV Configurator API v1",
			"status":  "ok",
		})
	})

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	fwd := proxy.New(cfg.WriteTimeout(), log.Named("proxy"))

	// Configurator Service
	projects := fwd.Prefix(cfg.Services.ConfiguratorURL, "/projects")
	api.All("/projects", projects)
	api.All("/projects/*", projects)

	// PVGIS
	pv := handlers.NewPVGISHandler(
		pvgis.NewClient(cfg.Services.PVGISURL, cfg.Services.PVGISTimeout, log.Named("pvgis")),
		proxy.New(cfg.Services.PVGISTimeout, log.Named("pvgis-proxy")),
		log,
	)
	api.Post("/pvcalc", pv.Calc)
	api.Get("/pvgis/:endpoint", pv.Passthrough)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("starting gateway",
		zap.String("addr", addr),
		zap.String("env", cfg.Server.Environment),
		zap.String("configurator", cfg.Services.ConfiguratorURL),
		zap.String("pvgis", cfg.Services.PVGISURL))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
