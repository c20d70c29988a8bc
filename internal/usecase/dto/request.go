package dto

// CreateSiteRequest - запрос на ручное создание сайта
type CreateSiteRequest struct {
	Name         string   `json:"name" validate:"omitempty,min=2,max=200"`
	Lat          float64  `json:"lat" validate:"required,min=-90,max=90"`
	Lon          float64  `json:"lon" validate:"required,min=-180,max=180"`
	RadiusMeters float64  `json:"radius_meters" validate:"required,min=100,max=1000"`
	DiscovererID *string  `json:"discoverer_id,omitempty" validate:"omitempty,uuid4"`
	Tags         []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
}

// RecordActivityRequest - запрос на фиксацию события активности
type RecordActivityRequest struct {
	SiteID      string                 `json:"site_id" validate:"required,uuid4"`
	UserID      *string                `json:"user_id,omitempty" validate:"omitempty,uuid4"`
	Type        string                 `json:"type" validate:"required,oneof=visit spot_created interaction discovery check_in"`
	ContentID   *string                `json:"content_id,omitempty"`
	ContentType *string                `json:"content_type,omitempty"`
	Lat         *float64               `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lon         *float64               `json:"lon,omitempty" validate:"omitempty,min=-180,max=180"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// RecomputeRankingsRequest - запрос на пакетный пересчёт рейтингов.
// Пустой список site_ids означает все активные сайты.
type RecomputeRankingsRequest struct {
	SiteIDs []string           `json:"site_ids,omitempty" validate:"omitempty,max=1000,dive,uuid4"`
	Weights map[string]float64 `json:"weights,omitempty"`
}
