package sites

import (
	"context"
	"time"

	"github.com/sites-microservice/internal/usecase"
	"github.com/sites-microservice/internal/worker"
	"go.uber.org/zap"
)

// RankingWorker периодически пересчитывает рейтинги всех активных сайтов
type RankingWorker struct {
	*worker.BaseWorker
	rankingUC *usecase.RankingUseCase
	interval  time.Duration
}

// NewRankingWorker создает новый RankingWorker
func NewRankingWorker(
	rankingUC *usecase.RankingUseCase,
	interval time.Duration,
	logger *zap.Logger,
) *RankingWorker {
	return &RankingWorker{
		BaseWorker: worker.NewBaseWorker("site-ranking", "", logger),
		rankingUC:  rankingUC,
		interval:   interval,
	}
}

// Start запускает воркер
func (w *RankingWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting RankingWorker",
		zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

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

func (w *RankingWorker) runOnce(ctx context.Context) {
	logger := w.Logger()
	started := time.Now()

	// Пустой список идентификаторов - пересчет всех активных сайтов
	result, err := w.rankingUC.BatchUpdateRankings(ctx, nil, nil)
	if err != nil {
		logger.Error("Ranking cycle failed", zap.Error(err))
		return
	}

	logger.Info("Ranking cycle completed",
		zap.Int("updated", result.Updated),
		zap.Int("errors", result.Errors),
		zap.Duration("elapsed", time.Since(started)))
}
