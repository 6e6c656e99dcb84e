package models

// GeoPoint represents one recorded trail position
type GeoPoint struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Elevation *float64 `json:"elevation,omitempty"` // meters, nil when the recorder had no altitude
}

// TrackSegment is an ordered run of points joined by geodesic segments
type TrackSegment struct {
	Points []GeoPoint `json:"points"`
}

// Track groups segments recorded under one GPX <trk>
type Track struct {
	Name     string         `json:"name,omitempty"`
	Segments []TrackSegment `json:"segments"`
}

// Trace is a parsed GPX document. Segments never connect to each other.
type Trace struct {
	Name   string  `json:"name,omitempty"`
	Tracks []Track `json:"tracks"`
}

// PointCount returns the number of points over all tracks and segments
func (t Trace) PointCount() int {
	n := 0
	for _, track := range t.Tracks {
		for _, seg := range track.Segments {
			n += len(seg.Points)
		}
	}
	return n
}

// ElevationProfile holds the aggregate metrics derived from a trace
type ElevationProfile struct {
	PositiveElevation float64 `json:"positive_elevation"` // meters
	NegativeElevation float64 `json:"negative_elevation"` // meters, reported as a magnitude
	TotalDistance     float64 `json:"total_distance"`     // kilometers
}

// Bounds is the latitude/longitude box covering a trace, in degrees.
// West is greater than East when the trace crosses the antimeridian.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}
