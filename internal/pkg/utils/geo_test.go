package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sites-microservice/internal/pkg/utils"
)

func TestHaversineDistance(t *testing.T) {
	t.Run("identical points are zero meters apart", func(t *testing.T) {
		assert.InDelta(t, 0, utils.HaversineDistance(40.0, -3.0, 40.0, -3.0), 0.001)
	})

	t.Run("one degree of latitude is about 111km", func(t *testing.T) {
		dist := utils.HaversineDistance(40.0, -3.0, 41.0, -3.0)
		assert.InDelta(t, 111195, dist, 200)
	})

	t.Run("madrid to barcelona", func(t *testing.T) {
		dist := utils.HaversineDistance(40.4168, -3.7038, 41.3874, 2.1686)
		assert.InDelta(t, 505000, dist, 5000)
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		forward := utils.HaversineDistance(40.0, -3.0, 51.5, -0.12)
		backward := utils.HaversineDistance(51.5, -0.12, 40.0, -3.0)
		assert.InDelta(t, forward, backward, 0.001)
	})
}

func TestValidateCoordinates(t *testing.T) {
	cases := []struct {
		name  string
		lat   float64
		lon   float64
		valid bool
	}{
		{"valid point", 40.4168, -3.7038, true},
		{"poles and antimeridian", 90, 180, true},
		{"negative extremes", -90, -180, true},
		{"latitude above range", 90.001, 0, false},
		{"latitude below range", -90.001, 0, false},
		{"longitude above range", 0, 180.001, false},
		{"longitude below range", 0, -180.001, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, utils.ValidateCoordinates(tc.lat, tc.lon))
		})
	}
}

func TestClampRadius(t *testing.T) {
	assert.Equal(t, 100.0, utils.ClampRadius(40, 100, 1000))
	assert.Equal(t, 1000.0, utils.ClampRadius(2500, 100, 1000))
	assert.Equal(t, 350.0, utils.ClampRadius(350, 100, 1000))
	assert.Equal(t, 100.0, utils.ClampRadius(100, 100, 1000))
	assert.Equal(t, 1000.0, utils.ClampRadius(1000, 100, 1000))
}
