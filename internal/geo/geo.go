package geo

import "math"

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two coordinates.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180.0
	rlat2 := lat2 * math.Pi / 180.0
	dlat := (lat2 - lat1) * math.Pi / 180.0
	dlng := (lng2 - lng1) * math.Pi / 180.0

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// RoundKm rounds a distance to two decimals, the precision surfaced to clients.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

// ValidCoordinates reports whether lat/lng are in range.
func ValidCoordinates(lat, lng float64) bool {
	return math.Abs(lat) <= 90 && math.Abs(lng) <= 180
}
