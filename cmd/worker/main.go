package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sites-microservice/internal/config"
	"github.com/sites-microservice/internal/domain/repository"
	"github.com/sites-microservice/internal/infrastructure/mapbox"
	"github.com/sites-microservice/internal/pkg/logger"
	"github.com/sites-microservice/internal/repository/cache"
	"github.com/sites-microservice/internal/repository/postgres"
	redisRepo "github.com/sites-microservice/internal/repository/redis"
	"github.com/sites-microservice/internal/usecase"
	"github.com/sites-microservice/internal/worker"
	"github.com/sites-microservice/internal/worker/sites"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Sites Workers")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Duration("discovery_interval", cfg.Discovery.Interval),
		zap.Duration("ranking_interval", cfg.Ranking.Interval))

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

	// 5. Initialize repositories
	siteRepo := postgres.NewSiteRepository(db)
	activityRepo := postgres.NewActivityRepository(db)
	contentRepo := postgres.NewContentRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	var geocodeRepo repository.GeocodeRepository
	if cfg.Mapbox.Enabled {
		geocodeRepo = mapbox.NewMapboxClient(&cfg.Mapbox, log)
	}

	// 6. Initialize engines and use cases
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

	// 7. Initialize workers
	activityWorker := sites.NewActivityWorker(
		streamRepo,
		siteUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		log,
	)
	discoveryWorker := sites.NewDiscoveryWorker(discoveryUC, cfg.Discovery.Interval, log)
	rankingWorker := sites.NewRankingWorker(rankingUC, cfg.Ranking.Interval, log)

	// 8. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(activityWorker)
	workerManager.Register(discoveryWorker)
	workerManager.Register(rankingWorker)

	// 9. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start workers
	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Cancel context to stop workers
	cancel()

	// Stop worker manager
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
