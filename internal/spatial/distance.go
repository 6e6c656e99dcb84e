package spatial

import "github.com/golang/geo/s2"

// Constants
const (
	EarthRadiusMeters = 6371008.8 // IUGG mean Earth radius in meters
)

// GeodesicDistance calculates the great-circle distance between two points in meters.
// Coordinates are in degrees.
func GeodesicDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}
