// Package gpx turns GPX documents into traces the analyzer understands.
package gpx

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/jengzang/hiking-duration-go/internal/models"
	gpxgo "github.com/tkrajina/gpxgo/gpx"
)

// ErrInvalidGPX is wrapped by every parse failure
var ErrInvalidGPX = errors.New("invalid GPX document")

// Parse decodes a GPX document held in memory
func Parse(data []byte) (models.Trace, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Trace{}, fmt.Errorf("%w: empty document", ErrInvalidGPX)
	}

	doc, err := gpxgo.ParseBytes(data)
	if err != nil {
		return models.Trace{}, fmt.Errorf("%w: %v", ErrInvalidGPX, err)
	}

	return toTrace(doc), nil
}

// ParseFile reads and decodes the GPX file at path
func ParseFile(path string) (models.Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Trace{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// toTrace copies tracks, segments and points in document order.
// Waypoints and routes are not part of a recorded trace and are skipped.
func toTrace(doc *gpxgo.GPX) models.Trace {
	trace := models.Trace{
		Name:   doc.Name,
		Tracks: make([]models.Track, 0, len(doc.Tracks)),
	}

	for _, trk := range doc.Tracks {
		track := models.Track{
			Name:     trk.Name,
			Segments: make([]models.TrackSegment, 0, len(trk.Segments)),
		}

		for _, seg := range trk.Segments {
			points := make([]models.GeoPoint, 0, len(seg.Points))
			for _, p := range seg.Points {
				point := models.GeoPoint{
					Latitude:  p.Latitude,
					Longitude: p.Longitude,
				}
				if p.Elevation.NotNull() {
					v := p.Elevation.Value()
					point.Elevation = &v
				}
				points = append(points, point)
			}
			track.Segments = append(track.Segments, models.TrackSegment{Points: points})
		}

		trace.Tracks = append(trace.Tracks, track)
	}

	return trace
}
