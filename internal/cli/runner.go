package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jengzang/hiking-duration-go/internal/analysis"
	"github.com/jengzang/hiking-duration-go/internal/models"
	"github.com/jengzang/hiking-duration-go/internal/prompt"
	"github.com/jengzang/hiking-duration-go/internal/service"
	"github.com/sirupsen/logrus"
)

// Runner drives one interactive estimate on a terminal
type Runner struct {
	service *service.EstimateService
	prompt  *prompt.Prompter
	out     io.Writer
	logger  *logrus.Logger
}

// NewRunner creates a runner reading answers from in and writing to out
func NewRunner(svc *service.EstimateService, in io.Reader, out io.Writer, logger *logrus.Logger) *Runner {
	return &Runner{
		service: svc,
		prompt:  prompt.New(in, out),
		out:     out,
		logger:  logger,
	}
}

// Run estimates a hike. With a GPX path the lengths come from the trace,
// falling back to manual entry when the trace has no elevation data.
func (r *Runner) Run(ctx context.Context, gpxPath string) error {
	r.logger.WithField("gpx", gpxPath).Debug("starting interactive estimate")

	source := service.SourceManual
	var profile *models.ElevationProfile

	var posVertLen, negVertLen, horizLen float64
	var err error

	if gpxPath != "" {
		profile, err = r.analyze(ctx, gpxPath)
		if err != nil {
			return err
		}
	}

	if profile != nil {
		source = service.SourceGPX
		posVertLen = profile.PositiveElevation
		negVertLen = profile.NegativeElevation
		horizLen = profile.TotalDistance
	} else {
		posVertLen, negVertLen, horizLen, err = r.askLengths(ctx)
		if err != nil {
			return err
		}
	}

	params, err := r.askSpeeds(ctx, posVertLen, negVertLen, horizLen)
	if err != nil {
		return err
	}

	result, err := r.service.EstimateParams(ctx, params, source, profile)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "Total duration = %s.\n", result.Duration)
	return nil
}

// analyze returns nil without error when the trace carries no elevation
func (r *Runner) analyze(ctx context.Context, path string) (*models.ElevationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read GPX file: %w", err)
	}

	result, err := r.service.AnalyzeTrace(ctx, data)
	if errors.Is(err, analysis.ErrNoElevation) {
		fmt.Fprintln(r.out, "There is no elevation data in this GPX file. Enter the data manually:")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", path, err)
	}

	p := result.Profile
	fmt.Fprintln(r.out, "GPX trace analyzed:")
	fmt.Fprintf(r.out, "Positive elevation = %d m\n", int64(p.PositiveElevation))
	fmt.Fprintf(r.out, "Negative elevation = %d m\n", int64(p.NegativeElevation))
	fmt.Fprintf(r.out, "Total distance = %d km\n", int64(p.TotalDistance))

	return &p, nil
}

func (r *Runner) askLengths(ctx context.Context) (pos, neg, horiz float64, err error) {
	posInt, err := r.prompt.Int(ctx, "Positive elevation (m): ", prompt.NonNegative)
	if err != nil {
		return 0, 0, 0, err
	}
	negInt, err := r.prompt.Int(ctx, "Negative elevation (m): ", prompt.NonNegative)
	if err != nil {
		return 0, 0, 0, err
	}
	horiz, err = r.prompt.Float(ctx, "Total distance (km): ", prompt.NonNegative)
	if err != nil {
		return 0, 0, 0, err
	}
	return float64(posInt), float64(negInt), horiz, nil
}

func (r *Runner) askSpeeds(ctx context.Context, posVertLen, negVertLen, horizLen float64) (models.HikeParameters, error) {
	d := r.service.Defaults()

	posSpeed, err := r.prompt.FloatDefault(ctx,
		fmt.Sprintf("Positive elevation speed (m/h), default = %v: ", d.PosVertSpeed),
		d.PosVertSpeed, prompt.Positive)
	if err != nil {
		return models.HikeParameters{}, err
	}
	negSpeed, err := r.prompt.FloatDefault(ctx,
		fmt.Sprintf("Negative elevation speed (m/h), default = %v: ", d.NegVertSpeed),
		d.NegVertSpeed, prompt.Positive)
	if err != nil {
		return models.HikeParameters{}, err
	}
	horizSpeed, err := r.prompt.FloatDefault(ctx,
		fmt.Sprintf("Horizontal speed (km/h), default = %v: ", d.HorizSpeed),
		d.HorizSpeed, prompt.Positive)
	if err != nil {
		return models.HikeParameters{}, err
	}
	marginPercent, err := r.prompt.FloatDefault(ctx,
		fmt.Sprintf("Margin (%%), default = %v: ", d.MarginPercent),
		d.MarginPercent, prompt.NonNegative)
	if err != nil {
		return models.HikeParameters{}, err
	}

	return models.HikeParameters{
		PosVertLen:   posVertLen,
		NegVertLen:   negVertLen,
		PosVertSpeed: posSpeed,
		NegVertSpeed: negSpeed,
		HorizLen:     horizLen,
		HorizSpeed:   horizSpeed,
		Margin:       marginPercent / 100,
	}, nil
}
