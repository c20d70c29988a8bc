package dto

import "github.com/sites-microservice/internal/domain"

// RecordActivityResponse - подтверждение приёма события активности
type RecordActivityResponse struct {
	Accepted   bool   `json:"accepted"`
	SiteID     string `json:"site_id"`
	RecordedAt string `json:"recorded_at"`
}

// LeaderboardResponse - таблица лидеров
type LeaderboardResponse struct {
	Entries []*domain.LeaderboardEntry `json:"entries"`
	Total   int                        `json:"total"`
}

// DiscoveryResponse - сводка запуска цикла обнаружения
type DiscoveryResponse struct {
	Result *domain.DiscoveryResult `json:"result"`
}
