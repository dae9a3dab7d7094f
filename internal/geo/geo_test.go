package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_SamePoint(t *testing.T) {
	assert.Equal(t, 0.0, DistanceMeters(-8.1186, -34.9005, -8.1186, -34.9005))
}

func TestDistanceMeters_KnownOffset(t *testing.T) {
	// 0.00045 градуса широты ~ 50 метров
	lat := -8.1186
	d := DistanceMeters(lat, -34.9005, lat+0.00045, -34.9005)
	assert.InDelta(t, 50.0, d, 0.5)
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	d1 := DistanceMeters(-8.05, -34.88, -8.11, -34.90)
	d2 := DistanceMeters(-8.11, -34.90, -8.05, -34.88)
	assert.InDelta(t, d1, d2, 1e-6)
}

func TestValidCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"ok", -8.1, -34.9, true},
		{"bounds", 90, -180, true},
		{"lat too big", 90.0001, 0, false},
		{"lng too small", 0, -180.5, false},
		{"nan", math.NaN(), 0, false},
		{"inf", 0, math.Inf(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCoordinates(tt.lat, tt.lng))
		})
	}
}
