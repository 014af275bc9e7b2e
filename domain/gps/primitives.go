package gps

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rect is a bounding box given as x0 (west), y0 (south), x1 (east), y1 (north)
type Rect [4]float64

func RectFrom(x0, y0, x1, y1 float64) Rect {
	return Rect([4]float64{math.Min(x0, x1), math.Min(y0, y1), math.Max(x0, x1), math.Max(y0, y1)})
}

// ParseRect parses a bounding box of the form "x0,y0,x1,y1"
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("bad bounding box %q: expected 4 values", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || !IsFinite(f) {
			return Rect{}, fmt.Errorf("bad bounding box %q: value %d is not a number", s, i)
		}
		v[i] = f
	}
	return RectFrom(v[0], v[1], v[2], v[3]), nil
}

func (r Rect) Center() Point {
	return Point{(r[0] + r[2]) / 2, (r[1] + r[3]) / 2}
}

// Point is a position given as x (longitude), y (latitude)
type Point [2]float64

func PointFromLatLon(lat, lon float64) Point {
	return Point{lon, lat}
}

func (p Point) Lat() float64 {
	return p[1]
}

func (p Point) Lon() float64 {
	return p[0]
}

// In reports whether p lies in r, borders included
func (p Point) In(r Rect) bool {
	return p[0] >= r[0] && p[0] <= r[2] && p[1] >= r[1] && p[1] <= r[3]
}
