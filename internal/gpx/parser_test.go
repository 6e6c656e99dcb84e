package gpx

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jengzang/hiking-duration-go/internal/analysis"
	"github.com/jengzang/hiking-duration-go/internal/models"
)

func TestParseFileStructure(t *testing.T) {
	trace, err := ParseFile(filepath.Join("testdata", "climb.gpx"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(trace.Tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(trace.Tracks))
	}
	track := trace.Tracks[0]
	if track.Name != "ascent" {
		t.Fatalf("expected track name ascent, got %q", track.Name)
	}
	if len(track.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(track.Segments))
	}
	if n := trace.PointCount(); n != 5 {
		t.Fatalf("expected 5 points, got %d", n)
	}

	first := track.Segments[0].Points[0]
	if first.Latitude != 45.965 || first.Longitude != 6.892 {
		t.Fatalf("unexpected coordinates: %+v", first)
	}
	if first.Elevation == nil || *first.Elevation != 1930 {
		t.Fatalf("unexpected elevation: %v", first.Elevation)
	}
}

func TestParseMissingElevationIsNil(t *testing.T) {
	trace, err := ParseFile(filepath.Join("testdata", "no_elevation.gpx"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	points := trace.Tracks[0].Segments[0].Points
	if points[1].Elevation != nil {
		t.Fatalf("expected nil elevation, got %v", *points[1].Elevation)
	}
	if points[0].Elevation == nil || points[2].Elevation == nil {
		t.Fatalf("expected the other elevations to be present")
	}

	if _, err := analysis.AnalyzeTrace(trace); !errors.Is(err, analysis.ErrNoElevation) {
		t.Fatalf("expected ErrNoElevation, got %v", err)
	}
}

func TestParseAndAnalyzeIdenticalCoordinates(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "flat_identical.gpx"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	trace, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	profile, err := analysis.AnalyzeTrace(trace)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	want := models.ElevationProfile{PositiveElevation: 1000, NegativeElevation: 500, TotalDistance: 0}
	if profile != want {
		t.Fatalf("expected %+v, got %+v", want, profile)
	}
}

func TestParseAndAnalyzeSegments(t *testing.T) {
	trace, err := ParseFile(filepath.Join("testdata", "climb.gpx"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	profile, err := analysis.AnalyzeTrace(trace)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	// 1930 -> 2050 -> 2352, then a new segment 2352 -> 2130
	if profile.PositiveElevation != 422 {
		t.Fatalf("expected 422 m gain, got %v", profile.PositiveElevation)
	}
	if profile.NegativeElevation != 222 {
		t.Fatalf("expected 222 m loss, got %v", profile.NegativeElevation)
	}
	if profile.TotalDistance < 1.7 || profile.TotalDistance > 2.2 {
		t.Fatalf("unexpected distance %v km", profile.TotalDistance)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"whitespace", []byte("  \n\t")},
		{"not xml", []byte("lat,lon,ele\n45,6,1000\n")},
		{"truncated", []byte(`<gpx version="1.1"><trk><trkseg><trkpt lat="1" lon="2">`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.data); !errors.Is(err, ErrInvalidGPX) {
				t.Fatalf("expected ErrInvalidGPX, got %v", err)
			}
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.gpx"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
