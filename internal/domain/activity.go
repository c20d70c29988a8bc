package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names (должны совпадать с publisher-ами контентного сервиса)
const (
	StreamActivityRecorded = "stream:activity:recorded"
)

// ActivityType - тип зафиксированного события на сайте
type ActivityType string

const (
	ActivityVisit       ActivityType = "visit"
	ActivitySpotCreated ActivityType = "spot_created"
	ActivityInteraction ActivityType = "interaction"
	ActivityDiscovery   ActivityType = "discovery"
	ActivityCheckIn     ActivityType = "check_in"
)

// Valid проверяет, что значение принадлежит закрытому множеству типов
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityVisit, ActivitySpotCreated, ActivityInteraction, ActivityDiscovery, ActivityCheckIn:
		return true
	}
	return false
}

// ActivityTypeCount - количество различных типов активности,
// используется ранжированием при расчёте diversity score
const ActivityTypeCount = 5

// Activity - одно событие, привязанное к сайту. Неизменяемо после создания.
type Activity struct {
	ID     uuid.UUID  `json:"id" db:"id"`
	SiteID uuid.UUID  `json:"site_id" db:"site_id"`
	UserID *uuid.UUID `json:"user_id,omitempty" db:"user_id"`

	Type ActivityType `json:"type" db:"type"`

	// Опциональная привязка к контенту
	ContentID   *string `json:"content_id,omitempty" db:"content_id"`
	ContentType *string `json:"content_type,omitempty" db:"content_type"`

	Lat *float64 `json:"lat,omitempty" db:"lat"`
	Lon *float64 `json:"lon,omitempty" db:"lon"`

	Metadata map[string]interface{} `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ActivityRecordedEvent - входящее событие записи активности из стрима
type ActivityRecordedEvent struct {
	SiteID      uuid.UUID              `json:"site_id"`
	UserID      *uuid.UUID             `json:"user_id,omitempty"`
	Type        ActivityType           `json:"type"`
	ContentID   *string                `json:"content_id,omitempty"`
	ContentType *string                `json:"content_type,omitempty"`
	Lat         *float64               `json:"lat,omitempty"`
	Lon         *float64               `json:"lon,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	RecordedAt  time.Time              `json:"recorded_at"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
