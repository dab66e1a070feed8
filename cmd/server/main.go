package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikkim/wishwall-backend/config"
	"github.com/ikkim/wishwall-backend/internal/app/controller"
	"github.com/ikkim/wishwall-backend/internal/app/repository"
	"github.com/ikkim/wishwall-backend/internal/app/service"
	"github.com/ikkim/wishwall-backend/internal/db"
	"github.com/ikkim/wishwall-backend/internal/middleware"
	"github.com/ikkim/wishwall-backend/internal/router"
	"github.com/ikkim/wishwall-backend/internal/scheduler"
	"github.com/ikkim/wishwall-backend/internal/websocket"
	"github.com/ikkim/wishwall-backend/pkg/googleauth"
	"github.com/ikkim/wishwall-backend/pkg/logger"
	"github.com/ikkim/wishwall-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting WISHWALL Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis. The feed cache degrades to direct DB reads when
	// Redis is unavailable, so this is not fatal.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, feed caching disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer redis.Close()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	sessionRepo := repository.NewSessionRepository(db.GetDB())
	wishRepo := repository.NewCachedWishRepository(
		repository.NewWishRepository(db.GetDB()),
		redis.GetClient(),
		cfg.Redis.FeedTTL,
	)

	// Live feed hub
	hub := websocket.NewHub()
	go hub.Run()

	// Google ID token verifier. Google sign-in is disabled when no client
	// ID is configured.
	var verifier service.GoogleVerifier
	if cfg.Google.ClientID != "" {
		v, err := googleauth.NewVerifier(cfg.Google.JWKSURL, cfg.Google.ClientID)
		if err != nil {
			logger.Fatal("Failed to initialize Google token verifier", err)
		}
		verifier = v
	} else {
		logger.Warn("GOOGLE_CLIENT_ID not set, Google sign-in disabled", nil)
	}

	// Initialize services
	wishService := service.NewWishService(wishRepo, sessionRepo, hub)
	authService := service.NewAuthService(userRepo, verifier, service.TokenConfig{
		Secret:             cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.JWT.RefreshTokenExpiry,
	})
	exportService := service.NewExportService(wishRepo)

	// Initialize controllers
	wishController := controller.NewWishController(
		wishService,
		cfg.Session.CookieName,
		int(cfg.Session.MaxAge.Seconds()),
	)
	authController := controller.NewAuthController(authService)
	exportController := controller.NewExportController(exportService)
	feedController := controller.NewFeedController(hub, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, cfg.Session.CookieName, sessionRepo)

	// Start session cleanup scheduler
	cleanupScheduler := scheduler.NewSessionCleanupScheduler(sessionRepo, cfg.Session.IdleRetention)
	if err := cleanupScheduler.Start(); err != nil {
		logger.Fatal("Failed to start session cleanup scheduler", err)
	}
	defer cleanupScheduler.Stop()

	// Setup router
	engine := router.NewRouter(
		wishController,
		authController,
		exportController,
		feedController,
		authMiddleware,
		cfg,
	).Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server listening", map[string]interface{}{
			"address": addr,
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)
}
