package gps

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"
)

type Coordinates struct {
	lat  float64
	long float64
}

func (gps *Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Lat  float64 `json:"lat"`
		Long float64 `json:"long"`
	}{
		Lat:  gps.lat,
		Long: gps.long,
	})
}

func (gps *Coordinates) UnmarshalJSON(buf []byte) error {
	var c struct {
		Lat  float64 `json:"lat"`
		Long float64 `json:"long"`
	}
	if err := json.Unmarshal(buf, &c); err != nil {
		return err
	}
	gps.lat = c.Lat
	gps.long = c.Long
	return nil
}

func NewCoordinates(lat, long float64) Coordinates {
	return Coordinates{lat: lat, long: long}
}

// MustNewCoordinates returns valid coordinates or panics
func MustNewCoordinates(lat, long float64) *Coordinates {
	c := NewCoordinates(lat, long)
	if !c.Valid() {
		panic(fmt.Sprintf("invalid coordinates %f,%f", lat, long))
	}
	return &c
}

func (c Coordinates) Lat() float64 {
	return c.lat
}

func (c Coordinates) Long() float64 {
	return c.long
}

// Valid reports whether both components are finite and within WGS-84 bounds
func (c Coordinates) Valid() bool {
	return IsFinite(c.lat) && IsFinite(c.long) &&
		c.lat >= -90 && c.lat <= 90 && c.long >= -180 && c.long <= 180
}

func (c Coordinates) String() string {
	return fmt.Sprintf("[%f;%f]", c.lat, c.long)
}

func (c Coordinates) Point() Point {
	return PointFromLatLon(c.lat, c.long)
}

func (c *Coordinates) ISO6709() string {
	return fmt.Sprintf("%+010.6f%+011.6f/", c.lat, c.long)
}

func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Fixed formats v with exactly digits fractional digits. The exact binary
// value of v is rounded half away from zero and a negative value keeps its
// sign even when it rounds to zero. Non-finite values are formatted as
// "NaN", "Infinity" and "-Infinity".
func Fixed(v float64, digits int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	r := new(big.Rat).SetFloat64(v)
	r.Mul(r, new(big.Rat).SetInt(scale))
	r.Add(r, big.NewRat(1, 2))
	n := new(big.Int).Quo(r.Num(), r.Denom())

	q, m := new(big.Int).QuoRem(n, scale, new(big.Int))
	if digits == 0 {
		return sign + q.String()
	}
	frac := m.String()
	return sign + q.String() + "." + strings.Repeat("0", digits-len(frac)) + frac
}
