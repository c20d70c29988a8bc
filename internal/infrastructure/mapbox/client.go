package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sites-microservice/internal/config"
	"github.com/sites-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

type client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	logger      *zap.Logger
}

// geocodeResponse - ответ Mapbox Geocoding API (только нужные поля)
type geocodeResponse struct {
	Features []struct {
		PlaceName string `json:"place_name"`
		Text      string `json:"text"`
	} `json:"features"`
}

// NewMapboxClient создает новый клиент для Mapbox Geocoding API
func NewMapboxClient(cfg *config.MapboxConfig, logger *zap.Logger) repository.GeocodeRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL:     cfg.BaseURL,
		accessToken: cfg.AccessToken,
		logger:      logger,
	}
}

// ReverseGeocode возвращает название места по координатам
func (c *client) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	// Mapbox принимает координаты в порядке lon,lat
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%f,%f.json?types=poi,neighborhood,place&limit=1&access_token=%s",
		c.baseURL, lon, lat, url.QueryEscape(c.accessToken))

	c.logger.Debug("Calling Mapbox Geocoding API",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Mapbox API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return "", fmt.Errorf("mapbox API error: status %d", resp.StatusCode)
	}

	var geoResp geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&geoResp); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(geoResp.Features) == 0 {
		return "", fmt.Errorf("no place found for coordinates %.4f, %.4f", lat, lon)
	}

	name := geoResp.Features[0].Text
	if name == "" {
		name = geoResp.Features[0].PlaceName
	}

	c.logger.Debug("Reverse geocode successful", zap.String("name", name))
	return name, nil
}
