// cmd/server/main.go
// Entry point for the golf scoring API server.
//
// Startup order: configuration, logger, database, migrations, scoring engine, metrics,
// live hub, then routes. The process runs until SIGINT/SIGTERM, then drains in-flight
// requests and closes every live connection before exiting.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	// cors lets the mobile app call the API from a different origin.
	"github.com/gofiber/fiber/v2/middleware/cors"
	// logger prints one line per request (method, path, status, duration).
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/trentd187/golf-scoring/internal/config"
	"github.com/trentd187/golf-scoring/internal/database"
	"github.com/trentd187/golf-scoring/internal/handlers"
	"github.com/trentd187/golf-scoring/internal/metrics"
	"github.com/trentd187/golf-scoring/internal/middleware"
	"github.com/trentd187/golf-scoring/internal/models"
	"github.com/trentd187/golf-scoring/internal/repository"
	"github.com/trentd187/golf-scoring/internal/scoring"
	"github.com/trentd187/golf-scoring/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := cfg.NewLogger(os.Stdout)
	slog.SetDefault(log)

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if cfg.IsProduction() && cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		return err
	}

	formats, err := cfg.FormatRegistry()
	if err != nil {
		return fmt.Errorf("format aliases: %w", err)
	}

	// Cancelled on SIGINT/SIGTERM; stops the hub and triggers the HTTP shutdown below.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub(log.With(slog.String("component", "live")))
	go hub.Run(ctx)

	var (
		recorder *metrics.Recorder
		registry *prometheus.Registry
	)
	engineOpts := []scoring.Option{
		scoring.WithFormats(formats),
		scoring.WithLogger(log.With(slog.String("component", "scoring"))),
	}
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.New(registry, hub.ClientCount)
		engineOpts = append(engineOpts, scoring.WithObserver(recorder))
	}
	engine := scoring.NewEngine(engineOpts...)

	users := repository.NewUsers(db)
	events := repository.NewEvents(db)
	rounds := repository.NewRounds(db, log)

	deps := handlers.RoundDeps{
		Store:   rounds,
		Engine:  engine,
		Live:    hub,
		Metrics: recorder,
		Logger:  log,
	}

	app := fiber.New(fiber.Config{
		AppName: "Golf Scoring API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// --- Public routes ---
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	app.Get("/health", handlers.HealthCheck(sqlDB.PingContext))
	if registry != nil {
		app.Get("/metrics", metrics.Handler(registry))
	}
	// Live leaderboards are read-only and watched from shared screens, so no token is needed.
	app.Get("/ws/rounds/:id", websocket.RequireUpgrade, hub.Serve(handlers.LiveSnapshot(deps)))

	// --- Authenticated API routes ---
	api := app.Group("/api/v1", middleware.Auth(cfg, users, log))

	api.Get("/formats", handlers.GetFormats(engine))

	// GET  /api/v1/events  list events the user belongs to (admins see all), optional ?type=
	// POST /api/v1/events  create an event (admin and manager only)
	api.Get("/events", handlers.GetEvents(events, log))
	api.Post("/events", middleware.RequireRole(models.UserRoleAdmin, models.UserRoleManager), handlers.CreateEvent(events, log))

	api.Get("/rounds/:id/leaderboard", handlers.GetLeaderboard(deps))
	api.Get("/rounds/:id/scorecard/:participantID", handlers.GetScorecard(deps))
	api.Put("/rounds/:id/scores", handlers.PutScore(deps))
	api.Put("/rounds/:id/wolf/:hole", handlers.PutWolf(deps))

	errc := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("port", cfg.Port), slog.String("env", cfg.Env))
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return sqlDB.Close()
}
