package utils

import (
	"github.com/golang/geo/s2"
)

const (
	// EarthRadiusMeters - средний радиус Земли в метрах
	EarthRadiusMeters = 6371000.0
)

// HaversineDistance вычисляет расстояние по большому кругу между двумя точками в метрах
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ClampRadius ограничивает радиус сайта допустимым диапазоном в метрах
func ClampRadius(radius, min, max float64) float64 {
	if radius < min {
		return min
	}
	if radius > max {
		return max
	}
	return radius
}
