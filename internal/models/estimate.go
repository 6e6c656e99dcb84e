package models

// EstimateRequest is the JSON body of POST /api/v1/estimate.
// Optional fields left out fall back to the configured defaults.
type EstimateRequest struct {
	PosVertLen   *float64 `json:"pos_vert_len" binding:"required,gte=0"`
	NegVertLen   *float64 `json:"neg_vert_len" binding:"required,gte=0"`
	HorizLen     *float64 `json:"horiz_len" binding:"required,gte=0"`
	PosVertSpeed *float64 `json:"pos_vert_speed" binding:"omitempty,gt=0"`
	NegVertSpeed *float64 `json:"neg_vert_speed" binding:"omitempty,gt=0"`
	HorizSpeed   *float64 `json:"horiz_speed" binding:"omitempty,gt=0"`
	Margin       *float64 `json:"margin" binding:"omitempty,gte=0"` // fraction
}

// SpeedOverrides carries the optional speed and margin inputs shared by every entry point
type SpeedOverrides struct {
	PosVertSpeed *float64 `json:"pos_vert_speed,omitempty"`
	NegVertSpeed *float64 `json:"neg_vert_speed,omitempty"`
	HorizSpeed   *float64 `json:"horiz_speed,omitempty"`
	Margin       *float64 `json:"margin,omitempty"` // fraction
}

// Overrides extracts the optional part of the request
func (r EstimateRequest) Overrides() SpeedOverrides {
	return SpeedOverrides{
		PosVertSpeed: r.PosVertSpeed,
		NegVertSpeed: r.NegVertSpeed,
		HorizSpeed:   r.HorizSpeed,
		Margin:       r.Margin,
	}
}

// EstimateResult is returned by every estimate entry point
type EstimateResult struct {
	DurationHours float64           `json:"duration_hours"`
	Duration      string            `json:"duration"` // "H h M min"
	Parameters    HikeParameters    `json:"parameters"`
	Profile       *ElevationProfile `json:"profile,omitempty"` // set when lengths came from a trace
}

// TraceAnalysisResult is returned by POST /api/v1/traces/analyze
type TraceAnalysisResult struct {
	Name       string           `json:"name,omitempty"`
	PointCount int              `json:"point_count"`
	Profile    ElevationProfile `json:"profile"`
	Bounds     *Bounds          `json:"bounds,omitempty"`
}
