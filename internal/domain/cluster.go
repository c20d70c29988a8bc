package domain

import "time"

// ContentItem - элемент контента с координатами из внешнего хранилища.
// Сервис только читает такие элементы, запись выполняет контентный сервис.
type ContentItem struct {
	ID         string    `json:"id" db:"id"`
	Lat        float64   `json:"lat" db:"lat"`
	Lon        float64   `json:"lon" db:"lon"`
	LikeCount  int       `json:"like_count" db:"like_count"`
	ReplyCount int       `json:"reply_count" db:"reply_count"`
	ShareCount int       `json:"share_count" db:"share_count"`
	ViewCount  int       `json:"view_count" db:"view_count"`
	Tags       []string  `json:"tags,omitempty" db:"tags"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ClusterPoint - взвешенная точка, вход кластеризации. Не персистится.
type ClusterPoint struct {
	ID        string    `json:"id"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Weight    float64   `json:"weight"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// Cluster - результат одного прогона кластеризации. Живёт в пределах
// одного запуска discovery и не персистится.
type Cluster struct {
	CenterLat    float64        `json:"center_lat"`
	CenterLon    float64        `json:"center_lon"`
	RadiusMeters float64        `json:"radius_meters"`
	Points       []ClusterPoint `json:"points"`
	Density      float64        `json:"density"`
	TotalWeight  float64        `json:"total_weight"`
	Bounds       BoundingBox    `json:"bounds"`
}
