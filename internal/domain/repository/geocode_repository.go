package repository

import (
	"context"
)

// GeocodeRepository - опциональный внешний геокодер для именования сайтов.
// Реализация может отсутствовать; вызывающий код обязан деградировать
// к координатному имени.
type GeocodeRepository interface {
	// ReverseGeocode возвращает название ближайшего населённого пункта
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}
