package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bilgisen/content-gateway/internal/api"
	"github.com/bilgisen/content-gateway/internal/approval"
	"github.com/bilgisen/content-gateway/internal/cache"
	"github.com/bilgisen/content-gateway/internal/cms"
	"github.com/bilgisen/content-gateway/internal/config"
	"github.com/bilgisen/content-gateway/internal/content"
	"github.com/bilgisen/content-gateway/internal/logger"
	"github.com/bilgisen/content-gateway/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: cfg.Env == "development",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting content gateway...")

	// Wire the content pipeline: adapter -> cache -> services. The cache is
	// constructed here and injected, its lifetime is the process lifetime.
	cmsClient := cms.NewClient(cfg)
	store := cache.NewStore()
	contentSvc := content.NewService(cmsClient, store, cfg)
	approvalSvc := approval.NewService(cmsClient, cfg)

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	// Setup API routes
	api.SetupRoutes(app, contentSvc, approvalSvc, cfg)

	// Warm the high-traffic cache keys so the first public requests do not
	// all hit the upstream at once.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		defer cancel()
		if err := contentSvc.RefreshCache(ctx); err != nil {
			log.Warn().Err(err).Msg("Initial cache warm-up incomplete")
		}
	}()

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Create a deadline for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown the server
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
