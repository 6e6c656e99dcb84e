package spatial

import (
	"github.com/golang/geo/s2"
	"github.com/jengzang/hiking-duration-go/internal/models"
)

// TraceBounds calculates the bounding box of every point in the trace.
// ok is false for a trace without points.
func TraceBounds(trace models.Trace) (bounds models.Bounds, ok bool) {
	rect := s2.EmptyRect()
	for _, track := range trace.Tracks {
		for _, seg := range track.Segments {
			for _, p := range seg.Points {
				rect = rect.AddPoint(s2.LatLngFromDegrees(p.Latitude, p.Longitude))
			}
		}
	}
	if rect.IsEmpty() {
		return models.Bounds{}, false
	}

	return models.Bounds{
		South: rect.Lo().Lat.Degrees(),
		West:  rect.Lo().Lng.Degrees(),
		North: rect.Hi().Lat.Degrees(),
		East:  rect.Hi().Lng.Degrees(),
	}, true
}
