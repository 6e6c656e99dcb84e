package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jengzang/hiking-duration-go/internal/analysis"
	"github.com/jengzang/hiking-duration-go/internal/config"
	"github.com/jengzang/hiking-duration-go/internal/gpx"
	"github.com/jengzang/hiking-duration-go/internal/logging"
	"github.com/jengzang/hiking-duration-go/internal/models"
	"github.com/jengzang/hiking-duration-go/internal/publisher"
	"github.com/jengzang/hiking-duration-go/internal/spatial"
	"github.com/sirupsen/logrus"
)

// Estimate sources, used as metric labels and event subjects
const (
	SourceManual = "manual"
	SourceGPX    = "gpx"
)

// Recorder is implemented by metrics.Collector
type Recorder interface {
	EstimateObserved(source string, hours float64)
	TraceAnalyzed(result string, points int)
	InputRejected()
}

// EventPublisher is implemented by publisher.NATSPublisher
type EventPublisher interface {
	PublishEstimate(event publisher.EstimateEvent) error
}

// EstimateService is the shared entry point of the CLI and the HTTP adapters
type EstimateService struct {
	defaults  config.Defaults
	analyzer  *analysis.TraceAnalyzer
	logger    *logrus.Logger
	recorder  Recorder
	publisher EventPublisher
	now       func() time.Time
}

// NewEstimateService creates a new estimate service. recorder and pub may be nil.
func NewEstimateService(defaults config.Defaults, logger *logrus.Logger, recorder Recorder, pub EventPublisher) *EstimateService {
	return &EstimateService{
		defaults:  defaults,
		analyzer:  analysis.NewTraceAnalyzer(nil),
		logger:    logger,
		recorder:  recorder,
		publisher: pub,
		now:       time.Now,
	}
}

// Defaults returns the speed assumptions applied to missing inputs
func (s *EstimateService) Defaults() config.Defaults {
	return s.defaults
}

// Resolve builds estimator parameters from lengths and optional overrides
func (s *EstimateService) Resolve(posVertLen, negVertLen, horizLen float64, o models.SpeedOverrides) models.HikeParameters {
	p := models.HikeParameters{
		PosVertLen:   posVertLen,
		NegVertLen:   negVertLen,
		HorizLen:     horizLen,
		PosVertSpeed: s.defaults.PosVertSpeed,
		NegVertSpeed: s.defaults.NegVertSpeed,
		HorizSpeed:   s.defaults.HorizSpeed,
		Margin:       s.defaults.Margin(),
	}
	if o.PosVertSpeed != nil {
		p.PosVertSpeed = *o.PosVertSpeed
	}
	if o.NegVertSpeed != nil {
		p.NegVertSpeed = *o.NegVertSpeed
	}
	if o.HorizSpeed != nil {
		p.HorizSpeed = *o.HorizSpeed
	}
	if o.Margin != nil {
		p.Margin = *o.Margin
	}
	return p
}

// Estimate handles a manual estimate request
func (s *EstimateService) Estimate(ctx context.Context, req models.EstimateRequest) (*models.EstimateResult, error) {
	if req.PosVertLen == nil || req.NegVertLen == nil || req.HorizLen == nil {
		s.rejected()
		return nil, fmt.Errorf("%w: pos_vert_len, neg_vert_len and horiz_len are required", models.ErrInvalidParameter)
	}

	p := s.Resolve(*req.PosVertLen, *req.NegVertLen, *req.HorizLen, req.Overrides())
	return s.EstimateParams(ctx, p, SourceManual, nil)
}

// EstimateParams validates p, runs the estimator and reports the result.
// profile is attached when the lengths were derived from a trace.
func (s *EstimateService) EstimateParams(ctx context.Context, p models.HikeParameters, source string, profile *models.ElevationProfile) (*models.EstimateResult, error) {
	log := logging.FromContext(ctx, s.logger)

	if err := p.Validate(); err != nil {
		s.rejected()
		log.WithError(err).Info("estimate rejected")
		return nil, err
	}

	hours := analysis.EstimateDuration(p)
	if math.IsInf(hours, 0) || math.IsNaN(hours) {
		s.rejected()
		err := fmt.Errorf("%w: estimated duration is not finite", models.ErrInvalidParameter)
		log.WithError(err).Info("estimate rejected")
		return nil, err
	}
	result := &models.EstimateResult{
		DurationHours: hours,
		Duration:      analysis.FormatHoursMinutes(hours),
		Parameters:    p,
		Profile:       profile,
	}

	if s.recorder != nil {
		s.recorder.EstimateObserved(source, hours)
	}
	log.WithFields(logrus.Fields{
		"source":   source,
		"hours":    hours,
		"duration": result.Duration,
	}).Info("estimate computed")

	s.publish(ctx, source, result)
	return result, nil
}

// AnalyzeTrace parses a GPX document and derives its elevation profile.
// A trace without elevation returns analysis.ErrNoElevation; a broken document gpx.ErrInvalidGPX.
func (s *EstimateService) AnalyzeTrace(ctx context.Context, data []byte) (*models.TraceAnalysisResult, error) {
	log := logging.FromContext(ctx, s.logger)

	trace, err := gpx.Parse(data)
	if err != nil {
		s.traceAnalyzed("invalid", 0)
		log.WithError(err).Warn("gpx parse failed")
		return nil, err
	}

	points := trace.PointCount()
	profile, err := s.analyzer.Analyze(trace)
	if err != nil {
		if errors.Is(err, analysis.ErrNoElevation) {
			s.traceAnalyzed("no_elevation", points)
			log.WithField("points", points).Info("gpx trace has no elevation data")
		}
		return nil, err
	}

	s.traceAnalyzed("ok", points)
	log.WithFields(logrus.Fields{
		"points":             points,
		"positive_elevation": profile.PositiveElevation,
		"negative_elevation": profile.NegativeElevation,
		"total_distance_km":  profile.TotalDistance,
	}).Info("gpx trace analyzed")

	result := &models.TraceAnalysisResult{
		Name:       trace.Name,
		PointCount: points,
		Profile:    profile,
	}
	if bounds, ok := spatial.TraceBounds(trace); ok {
		result.Bounds = &bounds
	}
	return result, nil
}

// EstimateTrace analyzes a GPX document and estimates the hike it records
func (s *EstimateService) EstimateTrace(ctx context.Context, data []byte, o models.SpeedOverrides) (*models.EstimateResult, error) {
	analyzed, err := s.AnalyzeTrace(ctx, data)
	if err != nil {
		return nil, err
	}

	profile := analyzed.Profile
	p := s.Resolve(profile.PositiveElevation, profile.NegativeElevation, profile.TotalDistance, o)
	return s.EstimateParams(ctx, p, SourceGPX, &profile)
}

func (s *EstimateService) publish(ctx context.Context, source string, result *models.EstimateResult) {
	if s.publisher == nil {
		return
	}

	event := publisher.EstimateEvent{
		ID:            uuid.NewString(),
		RequestID:     logging.RequestID(ctx),
		Source:        source,
		Parameters:    result.Parameters,
		Profile:       result.Profile,
		DurationHours: result.DurationHours,
		Duration:      result.Duration,
		Timestamp:     s.now().UTC(),
	}
	// publish errors never fail the estimate
	if err := s.publisher.PublishEstimate(event); err != nil {
		logging.FromContext(ctx, s.logger).WithError(err).Warn("failed to publish estimate event")
	}
}

func (s *EstimateService) rejected() {
	if s.recorder != nil {
		s.recorder.InputRejected()
	}
}

func (s *EstimateService) traceAnalyzed(result string, points int) {
	if s.recorder != nil {
		s.recorder.TraceAnalyzed(result, points)
	}
}
