// Package services holds the application services between transport and
// domain: request validation, pipeline invocation, metrics recording.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"mepscan/internal/arbitrage"
	"mepscan/internal/config"
	"mepscan/internal/infrastructure"
	"mepscan/internal/quotes"
)

// AnalysisRequest carries one analysis invocation's inputs.
type AnalysisRequest struct {
	LocalFile     []byte  `validate:"required"`
	ForeignFile   []byte  `validate:"required"`
	ReferenceRate float64 `validate:"required,gt=0"`
	View          string  `validate:"omitempty,oneof=all cheaper expensive"`
}

// AnalysisDefaults is what clients see before the user enters anything.
type AnalysisDefaults struct {
	ReferenceRate float64 `json:"reference_rate"`
	PricingMode   string  `json:"pricing_mode"`
}

// AnalysisService validates requests, runs the pipeline, and records
// business metrics. Stateless between requests.
type AnalysisService struct {
	pipeline *arbitrage.Pipeline
	validate *validator.Validate
	metrics  *infrastructure.AnalysisMetrics
	cfg      config.AnalysisConfig
	logger   *slog.Logger
}

// NewAnalysisService creates the analysis service from configuration.
func NewAnalysisService(cfg config.AnalysisConfig, metrics *infrastructure.AnalysisMetrics, logger *slog.Logger) (*AnalysisService, error) {
	mode, err := quotes.ParsePricingMode(cfg.PricingMode)
	if err != nil {
		return nil, err
	}
	thresholds := arbitrage.Thresholds{Strong: cfg.StrongGapThreshold}

	return &AnalysisService{
		pipeline: arbitrage.NewPipeline(mode, thresholds, logger),
		validate: validator.New(),
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger.With(slog.String("service", "analysis")),
	}, nil
}

// Defaults returns the configured initial parameters.
func (s *AnalysisService) Defaults() AnalysisDefaults {
	return AnalysisDefaults{
		ReferenceRate: s.cfg.DefaultReferenceRate,
		PricingMode:   s.cfg.PricingMode,
	}
}

// MaxUploadBytes returns the per-file upload cap.
func (s *AnalysisService) MaxUploadBytes() int64 {
	return s.cfg.MaxUploadBytes
}

// Analyze validates the request and runs one full analysis.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*arbitrage.Report, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	view, err := arbitrage.ParseView(req.View)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report, err := s.pipeline.Run(ctx, req.LocalFile, req.ForeignFile, req.ReferenceRate, view)

	if s.metrics != nil {
		s.metrics.AnalysisDuration.Record(ctx, time.Since(start).Seconds())
		if err != nil {
			s.metrics.AnalysisFailures.Add(ctx, 1)
		} else {
			s.metrics.AnalysesTotal.Add(ctx, 1)
			s.metrics.RowsProduced.Add(ctx, int64(len(report.Rows)))
		}
	}
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "analysis served",
		slog.Int("rows", len(report.Rows)),
		slog.String("view", string(report.View)),
		slog.Duration("elapsed", time.Since(start)))
	return report, nil
}
