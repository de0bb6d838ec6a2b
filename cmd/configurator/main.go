package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pv-configurator/internal/common/config"
	"pv-configurator/internal/common/logger"
	"pv-configurator/internal/common/middleware"
	"pv-configurator/internal/configurator/handlers"
	"pv-configurator/internal/configurator/placement"
	"pv-configurator/internal/configurator/repository"
	"pv-configurator/internal/configurator/service"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"
)

// ============================================================
// Configurator Service
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
	log := logger.Named("configurator")

	db, err := repository.OpenSQLite(cfg.Storage.DBPath)
	if err != nil {
		log.Fatal("failed to open database", zap.String("path", cfg.Storage.DBPath), zap.Error(err))
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatal("failed to init database", zap.Error(err))
	}

	rules := placement.Rules{
		GridSize:   cfg.Placement.GridSize,
		MinSpacing: cfg.Placement.MinSpacing,
		TileWidth:  cfg.Placement.TileWidth,
		TileDepth:  cfg.Placement.TileDepth,
	}
	sessions := service.NewSessionManager(rules.GridSize, log.Named("gizmo"))
	svc := service.New(repo, placement.NewPlacer(rules, log.Named("placement")), sessions, log.Named("store"))

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		AppName:      "PV Configurator",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger(log))
	app.Use(middleware.CORS(cfg.Server.CORSOrigins...))

	// ============================================================
	// Routes
	// ============================================================

	health := handlers.NewHealthHandler(repo, log)
	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe)

	handlers.NewProjectHandler(svc, log).Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("starting configurator",
		zap.String("addr", addr),
		zap.String("env", cfg.Server.Environment),
		zap.String("db", cfg.Storage.DBPath),
		zap.Float64("grid", rules.GridSize),
		zap.Float64("spacing", rules.MinSpacing))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
