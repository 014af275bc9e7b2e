package gps

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinatesToISO6709(t *testing.T) {
	var data = []struct {
		lat  float64
		long float64
		iso  string
	}{
		{lat: 45.3, long: 2.443, iso: "+45.300000+002.443000/"},
		{lat: 45.3, long: -43.2344, iso: "+45.300000-043.234400/"},
	}
	for _, tt := range data {
		c := NewCoordinates(tt.lat, tt.long)
		iso := c.ISO6709()
		if iso != tt.iso {
			t.Errorf("Bad ISO6709 value, expected %s, got %s", tt.iso, iso)
		}
	}
}

func TestCoordinatesJSON(t *testing.T) {
	c := MustNewCoordinates(50.065718, 19.943022)
	out, err := json.Marshal(c)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"lat":50.065718,"long":19.943022}`, string(out))

	var back Coordinates
	assert.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, *c, back)
}

func TestCoordinatesValid(t *testing.T) {
	assert.True(t, NewCoordinates(0, 0).Valid())
	assert.True(t, NewCoordinates(-90, 180).Valid())
	assert.False(t, NewCoordinates(91, 0).Valid())
	assert.False(t, NewCoordinates(0, -180.5).Valid())
	assert.False(t, NewCoordinates(math.NaN(), 0).Valid())
	assert.False(t, NewCoordinates(0, math.Inf(1)).Valid())
}

func TestFixed(t *testing.T) {
	var data = []struct {
		v        float64
		digits   int
		expected string
	}{
		{50.065718, 5, "50.06572"},
		{50.0657185, 5, "50.06572"},
		{19.943022, 5, "19.94302"},
		{19.9430224, 5, "19.94302"},
		{50.06571, 5, "50.06571"},
		{50.06573, 5, "50.06573"},
		{50, 5, "50.00000"},
		{0, 5, "0.00000"},
		{-122.4194155, 5, "-122.41942"},
		{-0.000001, 5, "-0.00000"},
		{math.Copysign(0, -1), 5, "0.00000"},
		// exact binary tie, rounds away from zero
		{0.015625, 5, "0.01563"},
		{-0.015625, 5, "-0.01563"},
		{1e-7, 5, "0.00000"},
		{2.5, 0, "3"},
		{math.NaN(), 5, "NaN"},
	}
	for _, d := range data {
		assert.Equal(t, d.expected, Fixed(d.v, d.digits), "Fixed(%v, %d)", d.v, d.digits)
	}
}

func BenchmarkFixed(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Fixed(50.0657185, 5)
	}
}
