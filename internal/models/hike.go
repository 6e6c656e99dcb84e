package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is wrapped by every HikeParameters validation failure
var ErrInvalidParameter = errors.New("invalid hike parameter")

// HikeParameters is the input of the duration estimator
type HikeParameters struct {
	PosVertLen   float64 `json:"pos_vert_len"`   // meters climbed
	NegVertLen   float64 `json:"neg_vert_len"`   // meters descended
	PosVertSpeed float64 `json:"pos_vert_speed"` // m/h
	NegVertSpeed float64 `json:"neg_vert_speed"` // m/h
	HorizLen     float64 `json:"horiz_len"`      // km
	HorizSpeed   float64 `json:"horiz_speed"`    // km/h
	Margin       float64 `json:"margin"`         // fraction, 0.2 = 20%
}

// Validate rejects parameters the estimator cannot turn into a meaningful duration.
// Speeds must be strictly positive; lengths and margin must be non-negative.
func (p HikeParameters) Validate() error {
	lengths := []struct {
		name  string
		value float64
	}{
		{"pos_vert_len", p.PosVertLen},
		{"neg_vert_len", p.NegVertLen},
		{"horiz_len", p.HorizLen},
		{"margin", p.Margin},
	}
	for _, l := range lengths {
		if math.IsNaN(l.value) || math.IsInf(l.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidParameter, l.name)
		}
		if l.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidParameter, l.name)
		}
	}

	speeds := []struct {
		name  string
		value float64
	}{
		{"pos_vert_speed", p.PosVertSpeed},
		{"neg_vert_speed", p.NegVertSpeed},
		{"horiz_speed", p.HorizSpeed},
	}
	for _, s := range speeds {
		if math.IsNaN(s.value) || math.IsInf(s.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidParameter, s.name)
		}
		if s.value <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidParameter, s.name)
		}
	}

	return nil
}
