package arbitrage

import (
	"context"
	"fmt"
	"log/slog"

	"mepscan/internal/quotes"
)

// Pipeline runs the full analysis: load both workbooks, join on ticker,
// derive implied rates and gaps. A Pipeline is stateless between runs
// and safe for concurrent use; every invocation owns its record sets.
type Pipeline struct {
	mode       quotes.PricingMode
	thresholds Thresholds
	logger     *slog.Logger
}

// NewPipeline creates a pipeline for the given pricing mode.
func NewPipeline(mode quotes.PricingMode, thresholds Thresholds, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{mode: mode, thresholds: thresholds, logger: logger}
}

// Mode returns the pricing mode the pipeline was built with.
func (p *Pipeline) Mode() quotes.PricingMode {
	return p.mode
}

// Run executes one analysis over the two uploaded workbooks. Each file
// fails independently: a missing column in the foreign file surfaces
// with that side attached, regardless of the local file's validity.
// A join with zero matches returns an EmptyJoinError.
func (p *Pipeline) Run(ctx context.Context, localFile, foreignFile []byte, referenceRate float64, view View) (*Report, error) {
	loader := quotes.NewLoader(p.mode, p.logger)

	local, err := loader.Load(localFile, quotes.Local)
	if err != nil {
		return nil, fmt.Errorf("loading local file: %w", err)
	}
	foreign, err := loader.Load(foreignFile, quotes.Foreign)
	if err != nil {
		return nil, fmt.Errorf("loading foreign file: %w", err)
	}

	matched := Match(local, foreign)
	if len(matched) == 0 {
		return nil, &EmptyJoinError{
			LocalRecords:   len(local),
			ForeignRecords: len(foreign),
		}
	}

	rows, err := Compute(matched, referenceRate, p.mode, p.thresholds)
	if err != nil {
		return nil, err
	}

	summary := Summarize(rows, len(local), len(foreign))

	p.logger.InfoContext(ctx, "analysis complete",
		slog.String("mode", p.mode.String()),
		slog.Int("local_records", len(local)),
		slog.Int("foreign_records", len(foreign)),
		slog.Int("matched", len(matched)),
		slog.Int("rows", len(rows)),
		slog.Float64("reference_rate", referenceRate))

	return &Report{
		ReferenceRate: referenceRate,
		Mode:          p.mode.String(),
		View:          view,
		Rows:          ApplyView(rows, view, referenceRate),
		Summary:       summary,
	}, nil
}
