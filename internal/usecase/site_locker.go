package usecase

import (
	"sync"

	"github.com/google/uuid"
)

const lockerShards = 64

// SiteLocker сериализует конкурентные записи в один и тот же сайт.
// Discovery и пакетный пересчёт рейтингов могут обновлять один сайт
// одновременно; шардированные мьютексы исключают чередование
// частичных обновлений без глобальной блокировки.
type SiteLocker struct {
	shards [lockerShards]sync.Mutex
}

// NewSiteLocker создает новый SiteLocker
func NewSiteLocker() *SiteLocker {
	return &SiteLocker{}
}

// Lock захватывает мьютекс шарда сайта
func (l *SiteLocker) Lock(id uuid.UUID) {
	l.shards[shardIndex(id)].Lock()
}

// Unlock освобождает мьютекс шарда сайта
func (l *SiteLocker) Unlock(id uuid.UUID) {
	l.shards[shardIndex(id)].Unlock()
}

func shardIndex(id uuid.UUID) int {
	return int(id[0]) % lockerShards
}
