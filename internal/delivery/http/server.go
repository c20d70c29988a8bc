package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/sites-microservice/internal/config"
	"github.com/sites-microservice/internal/delivery/http/handler"
	"github.com/sites-microservice/internal/delivery/http/middleware"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	siteHandler     *handler.SiteHandler
	activityHandler *handler.ActivityHandler
	rankingHandler  *handler.RankingHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	siteHandler *handler.SiteHandler,
	activityHandler *handler.ActivityHandler,
	rankingHandler *handler.RankingHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Sites Microservice",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		siteHandler:     siteHandler,
		activityHandler: activityHandler,
		rankingHandler:  rankingHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Site routes
	api.Post("/sites", s.siteHandler.CreateSite)
	api.Get("/sites/:id", s.siteHandler.GetSite)
	api.Get("/sites/:id/ranking", s.siteHandler.GetSiteRanking)
	api.Get("/sites/:id/statistics", s.siteHandler.GetSiteStatistics)
	api.Post("/sites/:id/archive", s.siteHandler.ArchiveSite)

	// Activity routes
	api.Post("/activities", s.activityHandler.RecordActivity)

	// Leaderboard
	api.Get("/leaderboard", s.rankingHandler.GetLeaderboard)

	// Admin routes - ручные триггеры фоновых циклов
	admin := api.Group("/admin")
	admin.Post("/discover", s.rankingHandler.TriggerDiscovery)
	admin.Post("/rankings/recompute", s.rankingHandler.RecomputeRankings)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
