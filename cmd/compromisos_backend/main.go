package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	portsrepo "compromisos/internal/core/ports/repositories"
	"compromisos/internal/core/services"
	"compromisos/internal/handlers"
	"compromisos/internal/middleware"
	"compromisos/internal/platform/config"
	"compromisos/internal/repositories/cache"
	"compromisos/internal/repositories/database/pgsql"
	"compromisos/internal/utils"
	"compromisos/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Compromisos Backend API
// @version 1.0
// @description Commitment tracking and projection backend.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	applied, err := database.RunMigrations(cfg.DatabaseURL, "file://migrations")
	if err != nil {
		logger.Error("Failed to run database migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if applied {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}

	// The dashboard cache is an optimization: when Redis is unreachable the
	// dashboard recomputes on every request instead of failing. The interface
	// stays nil in that case so the service skips caching entirely.
	var dashboardCache portsrepo.DashboardCache
	redisCache := cache.NewRedisDashboardCache(cfg.RedisAddr, cfg.RedisPassword)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisCache.Ping(pingCtx); err != nil {
		cancel()
		logger.Warn("Redis unreachable, dashboard caching disabled", slog.String("error", err.Error()))
	} else {
		cancel()
		defer redisCache.Close()
		dashboardCache = redisCache
		logger.Info("Redis dashboard cache connected.")
	}

	repos := pgsql.NewRepositoryProvider(dbPool)

	serviceContainer := services.NewServiceContainer(cfg, repos, dashboardCache)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, analytics)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendBaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
