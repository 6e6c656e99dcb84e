package analysis

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jengzang/hiking-duration-go/internal/models"
)

// Default speed assumptions shared by the CLI and the web front end
const (
	DefaultPosVertSpeed  = 300.0 // m/h
	DefaultNegVertSpeed  = 500.0 // m/h
	DefaultHorizSpeed    = 4.0   // km/h
	DefaultMarginPercent = 20.0  // %
)

// EstimateDuration returns the estimated hike duration in hours.
//
// Climbing and walking are assumed to overlap: the dominant activity counts in
// full, the other one at half weight. The margin then inflates the result for
// rests and navigation.
//
// Speeds are not checked here; callers validate them (see HikeParameters.Validate).
func EstimateDuration(p models.HikeParameters) float64 {
	posVertTime := p.PosVertLen / p.PosVertSpeed
	negVertTime := p.NegVertLen / p.NegVertSpeed
	horizTime := p.HorizLen / p.HorizSpeed

	verticalTime := posVertTime + negVertTime
	base := math.Max(verticalTime, horizTime) + 0.5*math.Min(verticalTime, horizTime)

	return (1 + p.Margin) * base
}

// FormatHoursMinutes renders a decimal duration as "H h M min",
// with minutes rounded to the nearest multiple of 5 (ties to even).
func FormatHoursMinutes(hours float64) string {
	h := math.Trunc(hours)
	minutes := math.RoundToEven((hours-h)*60/5) * 5

	if minutes == 60 {
		h++
		minutes = 0
	}

	// Hours can exceed the int64 range for extreme inputs
	return fmt.Sprintf("%s h %d min", strconv.FormatFloat(h, 'f', 0, 64), int(minutes))
}
