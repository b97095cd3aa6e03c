package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vertitrack/internal/config"
	"vertitrack/internal/handler"
	"vertitrack/internal/middleware"
	"vertitrack/internal/pkg/clock"
	"vertitrack/internal/pkg/i18n"
	"vertitrack/internal/pkg/observability"
	"vertitrack/internal/repository"
	"vertitrack/internal/service"
	"vertitrack/internal/service/scheduler"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := observability.NewLogger("vertitrack-alerts", cfg.IsDevelopment())
	if envErr != nil {
		log.Info("no .env file found, using environment variables")
	}

	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Error("failed to connect to database", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Warn("redis unavailable, running without cache and scan lock", "error", err)
		redis = nil
	}
	if redis != nil {
		defer redis.Close()
	}

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Warn("minio unavailable, purged alerts will not be archived", "error", err)
		minioClient = nil
	}

	catalog, err := i18n.NewCatalog()
	if err != nil {
		log.Error("failed to load alert messages", "error", err)
		os.Exit(1)
	}
	if cfg.AlertTemplatePath != "" {
		if err := catalog.LoadDir(cfg.AlertTemplatePath); err != nil {
			log.Error("failed to load alert message overrides", "path", cfg.AlertTemplatePath, "error", err)
			os.Exit(1)
		}
	}

	clk := clock.System{Location: cfg.Location()}
	metrics := observability.PrometheusMetrics{}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redis, minioClient, catalog, clk, log, metrics, cfg)
	handlers := handler.NewHandlers(services, clk)

	sched := scheduler.New(services.Reminder, services.Alert, clk, log, metrics, scheduler.Config{
		ScanHour:      cfg.ScanHour,
		PurgeDay:      cfg.PurgeDay,
		PurgeHour:     cfg.PurgeHour,
		RetentionDays: cfg.RetentionDays,
		Location:      cfg.Location(),
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.NewErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PATCH, OPTIONS",
	}))

	setupRoutes(app, handlers)

	sched.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("http shutdown failed", "error", err)
		}
	}()

	log.Info("server starting", "port", cfg.Port, "driver", cfg.DatabaseDriver, "scan_hour", cfg.ScanHour)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("server stopped", "error", err)
	}

	sched.Stop()
}

func setupRoutes(app *fiber.App, h *handler.Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	h.Register(app.Group("/api/v1"))
}
