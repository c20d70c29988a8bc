package main

// @title Sites Microservice API
// @version 1.0.0
// @description Микросервис обнаружения и ранжирования "сакральных мест" - устойчивых географических кластеров пользовательской активности.
// @description
// @description Основные возможности:
// @description - Автоматическое обнаружение сайтов кластеризацией контента (DBSCAN по haversine-расстоянию)
// @description - Ручное создание и архивация сайтов
// @description - Семифакторное ранжирование сайтов с уровнями популярности
// @description - Таблица лидеров с фильтрами по уровню и географической зоне
// @description - Асинхронная запись активности через Redis Streams

// @contact.name API Support
// @contact.email support@sites-microservice.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/sites-microservice/docs/swagger"
	"github.com/sites-microservice/internal/config"
	httpDelivery "github.com/sites-microservice/internal/delivery/http"
	"github.com/sites-microservice/internal/delivery/http/handler"
	"github.com/sites-microservice/internal/domain/repository"
	"github.com/sites-microservice/internal/infrastructure/mapbox"
	"github.com/sites-microservice/internal/pkg/logger"
	"github.com/sites-microservice/internal/repository/cache"
	"github.com/sites-microservice/internal/repository/postgres"
	redisRepo "github.com/sites-microservice/internal/repository/redis"
	"github.com/sites-microservice/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Sites Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	siteRepo := postgres.NewSiteRepository(db)
	activityRepo := postgres.NewActivityRepository(db)
	contentRepo := postgres.NewContentRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	var geocodeRepo repository.GeocodeRepository
	if cfg.Mapbox.Enabled {
		geocodeRepo = mapbox.NewMapboxClient(&cfg.Mapbox, log)
		log.Info("Mapbox geocoder enabled")
	}

	log.Info("Repositories initialized")

	// 7. Initialize Engines and Use Cases
	clusterEngine, err := usecase.NewClusterEngine(usecase.ClusteringParams{
		MinPoints:       cfg.Discovery.MinPoints,
		MaxDistance:     cfg.Discovery.MaxDistanceMeters,
		MinWeight:       cfg.Discovery.MinWeight,
		TimeDecayFactor: cfg.Discovery.TimeDecayFactor,
	}, log)
	if err != nil {
		log.Fatal("Invalid clustering parameters", zap.Error(err))
	}

	rankingEngine := usecase.NewRankingEngine(activityRepo, contentRepo, log, cfg.Ranking.WindowDays)
	siteLocker := usecase.NewSiteLocker()

	siteUC := usecase.NewSiteUseCase(siteRepo, activityRepo, streamRepo, cacheRepo, log)

	rankingUC := usecase.NewRankingUseCase(
		siteRepo,
		cacheRepo,
		rankingEngine,
		siteLocker,
		log,
		cfg.Cache.RankingCacheTTL,
		cfg.Cache.LeaderboardCacheTTL,
		cfg.Ranking.BatchWorkers,
	)

	discoveryUC := usecase.NewDiscoveryUseCase(
		siteRepo,
		activityRepo,
		contentRepo,
		geocodeRepo,
		clusterEngine,
		rankingUC,
		siteLocker,
		log,
		cfg.Discovery,
	)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	siteHandler := handler.NewSiteHandler(siteUC, rankingUC, log)
	activityHandler := handler.NewActivityHandler(siteUC, log)
	rankingHandler := handler.NewRankingHandler(rankingUC, discoveryUC, log)

	log.Info("HTTP handlers initialized")

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		siteHandler,
		activityHandler,
		rankingHandler,
	)

	log.Info("HTTP server initialized")

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
