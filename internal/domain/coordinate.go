package domain

import "math"

// Geographic coordinate in floating-point degrees (WGS 84).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate is finite and within lat/lng range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Geographic bounding box spanning one or more coordinates.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// BoundsOf computes the bounding box of the given points.
// Returns false when the slice is empty.
func BoundsOf(points []Coordinate) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}

	b := Bounds{
		MinLat: points[0].Lat,
		MinLng: points[0].Lng,
		MaxLat: points[0].Lat,
		MaxLng: points[0].Lng,
	}
	for _, p := range points[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MinLng = math.Min(b.MinLng, p.Lng)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MaxLng = math.Max(b.MaxLng, p.Lng)
	}

	return b, true
}
