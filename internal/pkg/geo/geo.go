package geo

import (
	"errors"
	"math"
)

// DefaultRadiusMeters is used when a branch has no explicit geofence radius.
const DefaultRadiusMeters = 50

// ErrLocationUnavailable signals that no position was reported. It is
// advisory: callers decide whether to proceed without verification.
var ErrLocationUnavailable = errors.New("position unavailable")

// Position is a reported GPS fix.
type Position struct {
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	AccuracyMeters *float64 `json:"accuracy_meters,omitempty"`
}

// Check is the result of a geofence verification.
type Check struct {
	WithinRadius   bool `json:"within_radius"`
	DistanceMeters int  `json:"distance_meters"`
}

// HaversineMeters computes the great-circle distance between two coordinates
// in meters.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000 // meters

	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// Verify classifies a reported position against a branch location. The
// distance is rounded to the nearest meter. A nil position returns
// ErrLocationUnavailable; a distance is never computed from missing
// coordinates.
func Verify(pos *Position, branchLat, branchLon float64, radiusMeters int) (Check, error) {
	if pos == nil {
		return Check{}, ErrLocationUnavailable
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}

	distance := int(math.Round(HaversineMeters(pos.Latitude, pos.Longitude, branchLat, branchLon)))

	return Check{
		WithinRadius:   distance <= radiusMeters,
		DistanceMeters: distance,
	}, nil
}
