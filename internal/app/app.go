package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/config"
	"github.com/notehive/notehive/internal/database"
	"github.com/notehive/notehive/internal/handlers"
	"github.com/notehive/notehive/internal/middleware"
	"github.com/notehive/notehive/internal/services"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	services *services.Services
	handlers *handlers.Handlers
	router   *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	services, err := services.New(cfg, app.logger, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.services = services

	app.handlers = handlers.New(app.logger, cfg, services)

	app.setupRouter()

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if err := a.services.Stop(); err != nil {
		a.logger.WithError(err).Warn("Error stopping services")
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))

	// Health check endpoint (no auth required)
	router.GET("/health", a.handlers.Health.Check)

	// Prometheus metrics endpoint (no auth required)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Token minting (no auth required)
	router.POST("/api/v1/auth/token", a.handlers.Auth.Token)

	// API routes
	api := router.Group("/api/v1")
	{
		api.Use(middleware.Auth(a.services.Auth, a.logger))

		// User routes
		api.GET("/users/me", a.handlers.User.Me)

		// Group routes
		groups := api.Group("/groups")
		{
			groups.POST("", a.handlers.Group.Create)
			groups.GET("", a.handlers.Group.List)
			groups.GET("/:groupId", a.handlers.Group.Get)
			groups.PUT("/:groupId", a.handlers.Group.Update)
			groups.DELETE("/:groupId", a.handlers.Group.Delete)

			// Membership routes
			groups.GET("/:groupId/memberships", a.handlers.Membership.ListForGroup)
			groups.GET("/:groupId/memberships/me", a.handlers.Membership.GetMine)
			groups.POST("/:groupId/memberships", a.handlers.Membership.Join)
			groups.DELETE("/:groupId/memberships", a.handlers.Membership.Leave)
			groups.PUT("/:groupId/memberships/:userId", a.handlers.Membership.SetRole)
			groups.DELETE("/:groupId/memberships/:userId", a.handlers.Membership.Remove)

			// Board routes
			groups.GET("/:groupId/messages", a.handlers.Message.ListForGroup)
			groups.POST("/:groupId/messages", a.handlers.Message.Post)
		}

		api.GET("/memberships", a.handlers.Membership.ListMine)
		api.DELETE("/messages/:messageId", a.handlers.Message.Delete)

		// AI routes guard metered third-party calls with the rate limiter
		aiRoutes := api.Group("/ai")
		{
			aiRoutes.Use(middleware.RateLimit(a.services.RateLimit, a.logger))
			aiRoutes.POST("/study", a.handlers.AI.Study)
			aiRoutes.POST("/extract", a.handlers.AI.Extract)
		}
	}

	a.router = router
}
