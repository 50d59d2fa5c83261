package geo

import "math"

// Point describes geographic coordinates (WGS84).
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both coordinates are usable numbers.
func (p Point) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lon)
}

// DistanceKm returns the great-circle distance between two points in
// kilometers, rounded to one decimal place. Unknown coordinates produce NaN;
// callers decide what an unknown distance means for them.
func DistanceKm(a, b Point) float64 {
	if !a.Valid() || !b.Valid() {
		return math.NaN()
	}
	const earthRadiusKm = 6371.0
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := lat2 - lat1
	dLon := toRadians(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return math.Round(earthRadiusKm*c*10) / 10
}

func toRadians(v float64) float64 {
	return v * math.Pi / 180
}
