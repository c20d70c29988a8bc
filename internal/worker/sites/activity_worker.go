package sites

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sites-microservice/internal/domain"
	"github.com/sites-microservice/internal/domain/repository"
	"github.com/sites-microservice/internal/usecase"
	"github.com/sites-microservice/internal/worker"
	"go.uber.org/zap"
)

const (
	maxBatchSize    = 20                     // максимум сообщений за раз
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
)

// ActivityWorker персистит события активности из стрима
type ActivityWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	siteUC       *usecase.SiteUseCase
	consumerName string
	maxRetries   int
}

// NewActivityWorker создает новый ActivityWorker
func NewActivityWorker(
	streamRepo repository.StreamRepository,
	siteUC *usecase.SiteUseCase,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *ActivityWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &ActivityWorker{
		BaseWorker:   worker.NewBaseWorker("site-activity", consumerGroup, logger),
		streamRepo:   streamRepo,
		siteUC:       siteUC,
		consumerName: consumerName,
		maxRetries:   maxRetries,
	}
}

// Start запускает воркер
func (w *ActivityWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ActivityWorker (batch mode)",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("max_batch_size", maxBatchSize))

	// Создаем consumer group
	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamActivityRecorded, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	// Основной цикл обработки
	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			// Обрабатываем batch сообщений
			processed, err := w.processBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				time.Sleep(time.Second) // пауза при ошибке
				continue
			}

			// Если ничего не обработали - короткая пауза
			if processed == 0 {
				time.Sleep(emptyQueueSleep)
			}
		}
	}
}

// processBatch читает и обрабатывает batch сообщений
// Возвращает количество обработанных сообщений
func (w *ActivityWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	// 1. Читаем до 20 сообщений (неблокирующий режим)
	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamActivityRecorded,
		w.ConsumerGroup(),
		w.consumerName,
		maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}

	if len(messages) == 0 {
		return 0, nil // очередь пуста
	}

	logger.Info("Processing activity batch",
		zap.Int("message_count", len(messages)))

	// 2. Парсим и персистим события
	ackIDs := make([]string, 0, len(messages))
	persisted := 0

	for _, msg := range messages {
		event, err := w.parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			// ACK битое сообщение чтобы не застревало
			ackIDs = append(ackIDs, msg.ID)
			continue
		}

		if err := w.siteUC.PersistActivity(ctx, event); err != nil {
			logger.Error("Failed to persist activity",
				zap.String("message_id", msg.ID),
				zap.String("site_id", event.SiteID.String()),
				zap.Error(err))
			// Без ACK - сообщение будет переобработано
			continue
		}

		ackIDs = append(ackIDs, msg.ID)
		persisted++
	}

	// 3. ACK обработанных сообщений
	if err := w.streamRepo.AckMessages(ctx, domain.StreamActivityRecorded, w.ConsumerGroup(), ackIDs); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
		// Не критично - сообщения будут переобработаны
	}

	logger.Info("Activity batch processed",
		zap.Int("persisted", persisted),
		zap.Int("acked", len(ackIDs)))

	return len(messages), nil
}

// parseMessage парсит сообщение из стрима в ActivityRecordedEvent
func (w *ActivityWorker) parseMessage(msg domain.StreamMessage) (*domain.ActivityRecordedEvent, error) {
	var event domain.ActivityRecordedEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if !event.Type.Valid() {
		return nil, fmt.Errorf("invalid activity type: %s", event.Type)
	}

	return &event, nil
}
