// Package geo содержит геодезические вычисления для проверки согласованности координат фото.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters - средний радиус Земли, используемый в формуле гаверсинуса
const EarthRadiusMeters = 6371000.0

// ValidCoordinates проверяет, что широта и долгота конечны и лежат в допустимых диапазонах
func ValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// DistanceMeters возвращает расстояние по большому кругу между двумя точками в метрах
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lng1)
	b := s2.LatLngFromDegrees(lat2, lng2)
	// s2.LatLng.Distance считает угол по формуле гаверсинуса
	return a.Distance(b).Radians() * EarthRadiusMeters
}
