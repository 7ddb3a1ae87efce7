package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/skycast-bot/internal/models"
	"github.com/Nazarious-ucu/skycast-bot/internal/services/report"
)

// Day selects the forecast date relative to the current day.
type Day int

const (
	Today Day = iota
	Tomorrow
)

func (d Day) String() string {
	if d == Tomorrow {
		return "tomorrow"
	}
	return "today"
}

type normalizer interface {
	Normalize(ctx context.Context, raw string) (models.Location, error)
}

type forecaster interface {
	Fetch(ctx context.Context, loc models.Location, date time.Time) (models.DailyForecast, error)
}

type commentator interface {
	Comment(ctx context.Context, metricsBlock string, loc models.Location, target, today time.Time) (string, error)
}

type recorder interface {
	ReportRequested(day string)
	DegradedReport()
	ObserveStage(stage string, d time.Duration, err error)
}

// NopRecorder satisfies recorder without touching any registry.
type NopRecorder struct{}

func (NopRecorder) ReportRequested(string)                    {}
func (NopRecorder) DegradedReport()                           {}
func (NopRecorder) ObserveStage(string, time.Duration, error) {}

// Service runs the full report pipeline: normalize the city, fetch the
// forecast, assemble the metrics block, generate commentary. Stages run
// strictly in sequence, each under its own timeout. The service holds no
// mutable state, so concurrent invocations are independent.
type Service struct {
	normalizer   normalizer
	forecasts    forecaster
	commentator  commentator
	metrics      recorder
	stageTimeout time.Duration
	now          func() time.Time
	logger       zerolog.Logger
}

func NewService(
	n normalizer,
	f forecaster,
	c commentator,
	m recorder,
	stageTimeout time.Duration,
	logger zerolog.Logger,
) *Service {
	return &Service{
		normalizer:   n,
		forecasts:    f,
		commentator:  c,
		metrics:      m,
		stageTimeout: stageTimeout,
		now:          time.Now,
		logger:       logger,
	}
}

// WithClock overrides the time source. Used in tests to pin "today".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Report builds the final report for a raw user-typed city. A commentary
// failure degrades to the bare metrics block; normalization and forecast
// failures abort the request.
func (s *Service) Report(ctx context.Context, rawCity string, day Day) (string, error) {
	s.metrics.ReportRequested(day.String())

	today := s.now()
	target := today
	if day == Tomorrow {
		// AddDate rolls over month and year boundaries.
		target = today.AddDate(0, 0, 1)
	}

	loc, err := s.stageNormalize(ctx, rawCity)
	if err != nil {
		return "", err
	}

	forecast, err := s.stageFetch(ctx, loc, target)
	if err != nil {
		return "", err
	}

	metricsBlock := report.MetricsBlock(forecast, target)

	commentaryText, err := s.stageComment(ctx, metricsBlock, loc, target, today)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("location", loc.String()).
			Msg("commentary failed, returning metrics block without it")
		s.metrics.DegradedReport()
		return metricsBlock, nil
	}

	return report.Finalize(metricsBlock, commentaryText), nil
}

func (s *Service) stageNormalize(ctx context.Context, rawCity string) (models.Location, error) {
	stageCtx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	start := time.Now()
	loc, err := s.normalizer.Normalize(stageCtx, rawCity)
	s.metrics.ObserveStage("normalize", time.Since(start), err)
	return loc, err
}

func (s *Service) stageFetch(ctx context.Context, loc models.Location, target time.Time) (models.DailyForecast, error) {
	stageCtx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	start := time.Now()
	forecast, err := s.forecasts.Fetch(stageCtx, loc, target)
	s.metrics.ObserveStage("fetch", time.Since(start), err)
	return forecast, err
}

func (s *Service) stageComment(
	ctx context.Context,
	metricsBlock string,
	loc models.Location,
	target, today time.Time,
) (string, error) {
	stageCtx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	start := time.Now()
	text, err := s.commentator.Comment(stageCtx, metricsBlock, loc, target, today)
	s.metrics.ObserveStage("comment", time.Since(start), err)
	return text, err
}
