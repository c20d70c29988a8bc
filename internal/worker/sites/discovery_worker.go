package sites

import (
	"context"
	"time"

	"github.com/sites-microservice/internal/usecase"
	"github.com/sites-microservice/internal/worker"
	"go.uber.org/zap"
)

// DiscoveryWorker периодически запускает цикл обнаружения сайтов
type DiscoveryWorker struct {
	*worker.BaseWorker
	discoveryUC *usecase.DiscoveryUseCase
	interval    time.Duration
}

// NewDiscoveryWorker создает новый DiscoveryWorker
func NewDiscoveryWorker(
	discoveryUC *usecase.DiscoveryUseCase,
	interval time.Duration,
	logger *zap.Logger,
) *DiscoveryWorker {
	return &DiscoveryWorker{
		BaseWorker:  worker.NewBaseWorker("site-discovery", "", logger),
		discoveryUC: discoveryUC,
		interval:    interval,
	}
}

// Start запускает воркер
func (w *DiscoveryWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting DiscoveryWorker",
		zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Первый цикл сразу при старте, не дожидаясь тика
	w.runOnce(ctx)

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *DiscoveryWorker) runOnce(ctx context.Context) {
	logger := w.Logger()
	started := time.Now()

	result, err := w.discoveryUC.Discover(ctx)
	if err != nil {
		logger.Error("Discovery cycle failed", zap.Error(err))
		return
	}

	logger.Info("Discovery cycle completed",
		zap.Int("clusters", result.TotalClusters),
		zap.Int("new_sites", result.NewSites),
		zap.Int("updated_sites", result.UpdatedSites),
		zap.Int("dormant_sites", len(result.DormantSiteIDs)),
		zap.Int("ranked_sites", result.RankedSites),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("elapsed", time.Since(started)))
}
