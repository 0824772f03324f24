package geo

import (
	"errors"
	"math"
	"testing"
)

func TestHaversineMeters(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lon1     float64
		lat2     float64
		lon2     float64
		expected float64
		delta    float64
	}{
		{
			name:     "same point is zero",
			lat1:     -6.2, lon1: 106.8,
			lat2:     -6.2, lon2: 106.8,
			expected: 0, delta: 0.001,
		},
		{
			name:     "one millidegree of latitude",
			lat1:     0, lon1: 0,
			lat2:     0.001, lon2: 0,
			expected: 111.19, delta: 0.1,
		},
		{
			name:     "one millidegree of longitude at the equator",
			lat1:     0, lon1: 0,
			lat2:     0, lon2: 0.001,
			expected: 111.19, delta: 0.1,
		},
		{
			name:     "longitude shrinks away from the equator",
			lat1:     60, lon1: 0,
			lat2:     60, lon2: 0.001,
			expected: 55.6, delta: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("HaversineMeters() = %v, expected %v ± %v", got, tt.expected, tt.delta)
			}
		})
	}
}

func TestVerify(t *testing.T) {
	branchLat, branchLon := -6.2, 106.8

	tests := []struct {
		name           string
		pos            *Position
		radius         int
		expectedWithin bool
	}{
		{
			name:           "at the branch",
			pos:            &Position{Latitude: branchLat, Longitude: branchLon},
			radius:         50,
			expectedWithin: true,
		},
		{
			name:           "well outside the radius",
			pos:            &Position{Latitude: branchLat + 0.01, Longitude: branchLon},
			radius:         50,
			expectedWithin: false,
		},
		{
			name:           "zero radius falls back to the default",
			pos:            &Position{Latitude: branchLat + 0.0003, Longitude: branchLon},
			radius:         0,
			expectedWithin: true,
		},
		{
			name:           "just past the default radius",
			pos:            &Position{Latitude: branchLat + 0.0006, Longitude: branchLon},
			radius:         0,
			expectedWithin: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check, err := Verify(tt.pos, branchLat, branchLon, tt.radius)
			if err != nil {
				t.Fatalf("Verify() unexpected error: %v", err)
			}
			if check.WithinRadius != tt.expectedWithin {
				t.Errorf("Verify().WithinRadius = %v, expected %v (distance %dm)", check.WithinRadius, tt.expectedWithin, check.DistanceMeters)
			}
		})
	}
}

func TestVerifyBoundaryIsInside(t *testing.T) {
	// 0.00045 degrees of latitude is 50m to the nearest meter.
	check, err := Verify(&Position{Latitude: 0.00045, Longitude: 0}, 0, 0, 50)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if check.DistanceMeters != 50 {
		t.Fatalf("Verify().DistanceMeters = %d, expected 50", check.DistanceMeters)
	}
	if !check.WithinRadius {
		t.Error("Verify() at exactly the radius should be within")
	}
}

func TestVerifyNilPosition(t *testing.T) {
	_, err := Verify(nil, -6.2, 106.8, 50)
	if !errors.Is(err, ErrLocationUnavailable) {
		t.Errorf("Verify(nil) error = %v, expected ErrLocationUnavailable", err)
	}
}
