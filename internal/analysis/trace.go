package analysis

import (
	"errors"

	"github.com/jengzang/hiking-duration-go/internal/models"
	"github.com/jengzang/hiking-duration-go/internal/spatial"
)

// ErrNoElevation is returned when a visited trace point carries no elevation.
// It invalidates the whole trace, not just the point.
var ErrNoElevation = errors.New("trace has no elevation data")

// DistanceFunc returns the surface distance in meters between two points given in degrees
type DistanceFunc func(lat1, lon1, lat2, lon2 float64) float64

// TraceAnalyzer derives elevation gain, loss and horizontal distance from a trace
type TraceAnalyzer struct {
	distance DistanceFunc
}

// NewTraceAnalyzer creates an analyzer using the given distance model.
// A nil model falls back to spatial.GeodesicDistance.
func NewTraceAnalyzer(distance DistanceFunc) *TraceAnalyzer {
	if distance == nil {
		distance = spatial.GeodesicDistance
	}
	return &TraceAnalyzer{distance: distance}
}

// AnalyzeTrace analyzes a trace with the default geodesic distance model
func AnalyzeTrace(trace models.Trace) (models.ElevationProfile, error) {
	return NewTraceAnalyzer(nil).Analyze(trace)
}

// Analyze walks tracks, segments and points in document order.
// The previous-point cursor resets at each segment, so segment boundaries
// contribute neither elevation change nor distance.
func (a *TraceAnalyzer) Analyze(trace models.Trace) (models.ElevationProfile, error) {
	var positive, negative, meters float64

	for _, track := range trace.Tracks {
		for _, seg := range track.Segments {
			var prev *models.GeoPoint
			for i := range seg.Points {
				cur := &seg.Points[i]
				if cur.Elevation == nil {
					return models.ElevationProfile{}, ErrNoElevation
				}

				if prev != nil {
					delta := *cur.Elevation - *prev.Elevation
					if delta > 0 {
						positive += delta
					} else {
						negative -= delta
					}
					meters += a.distance(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
				}

				prev = cur
			}
		}
	}

	return models.ElevationProfile{
		PositiveElevation: positive,
		NegativeElevation: negative,
		TotalDistance:     meters / 1000,
	}, nil
}
