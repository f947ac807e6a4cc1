package repository

import (
	"math"

	"civic-jharkhand-be/models"
)

// earthRadiusMeters matches the radius mongo uses for 2dsphere queries.
const earthRadiusMeters = 6378100.0

// DistanceMeters is the great-circle (haversine) distance between a and b.
func DistanceMeters(a, b models.GeoPoint) float64 {
	lat1 := a.Latitude() * math.Pi / 180
	lat2 := b.Latitude() * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Longitude() - a.Longitude()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
