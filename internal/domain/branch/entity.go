package branch

import "time"

// Branch is a pharmacy location with a registered geofence. Branch records
// are owned by the branch registry; this service reads them only.
type Branch struct {
	ID           string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	Timezone     string // IANA zone name, e.g. "Europe/Bucharest"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Location returns the zone the branch operates in, falling back to UTC when
// the stored zone name is invalid.
func (b Branch) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
