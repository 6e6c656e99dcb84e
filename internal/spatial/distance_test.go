package spatial

import (
	"math"
	"testing"
)

func TestGeodesicDistanceSamePoint(t *testing.T) {
	if d := GeodesicDistance(45.8326, 6.8652, 45.8326, 6.8652); d != 0 {
		t.Fatalf("expected 0, got %v", d)
	}
}

func TestGeodesicDistanceKnownPairs(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64 // meters
		tolerance              float64 // fraction
	}{
		// One degree of latitude on the mean sphere is ~111.195 km
		{"one degree latitude", 0, 0, 1, 0, 111195, 0.001},
		{"one degree longitude at equator", 0, 0, 0, 1, 111195, 0.001},
		// Chamonix to Zermatt, roughly 69 km as the crow flies
		{"chamonix zermatt", 45.9237, 6.8694, 46.0207, 7.7491, 68800, 0.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeodesicDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want)/tt.want > tt.tolerance {
				t.Fatalf("got %.1f m, want %.1f m (±%.1f%%)", got, tt.want, tt.tolerance*100)
			}
		})
	}
}

func TestGeodesicDistanceSymmetric(t *testing.T) {
	a := GeodesicDistance(-6.2, 106.816, -6.9175, 107.6191)
	b := GeodesicDistance(-6.9175, 107.6191, -6.2, 106.816)
	if math.Abs(a-b)/a > 1e-12 {
		t.Fatalf("distance not symmetric: %v vs %v", a, b)
	}
}
