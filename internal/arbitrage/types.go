package arbitrage

import (
	"fmt"
	"strings"

	"mepscan/internal/quotes"
)

// MatchedRecord pairs one local and one foreign quote of the same
// instrument. Duplicate tickers on either side produce one record per
// local-foreign pair.
type MatchedRecord struct {
	Ticker  string             `json:"ticker"`
	Local   quotes.QuoteRecord `json:"local"`
	Foreign quotes.QuoteRecord `json:"foreign"`
}

// Signal is the coarse opportunity classification of a gap.
type Signal string

const (
	// SignalStrong marks gaps below the strong threshold: the implied
	// rate is well under the reference, buying in pesos is cheap.
	SignalStrong Signal = "strong"
	// SignalMild marks negative gaps above the strong threshold.
	SignalMild Signal = "mild"
	// SignalExpensive marks non-negative gaps.
	SignalExpensive Signal = "expensive"
)

// Thresholds configures the signal bands. Values are gap percentages.
type Thresholds struct {
	// Strong is the upper bound (exclusive) of the strong band.
	Strong float64 `yaml:"strong" envconfig:"STRONG" default:"-1.5"`
}

// DefaultThresholds returns the standard signal bands.
func DefaultThresholds() Thresholds {
	return Thresholds{Strong: -1.5}
}

// Classify maps a gap percentage to its signal band.
func (t Thresholds) Classify(gapPercent float64) Signal {
	switch {
	case gapPercent < t.Strong:
		return SignalStrong
	case gapPercent < 0:
		return SignalMild
	default:
		return SignalExpensive
	}
}

// AnalysisRow is one instrument's final analysis: the matched quotes
// plus the derived implied rate, its gap against the reference rate,
// and the signal band.
type AnalysisRow struct {
	Ticker      string             `json:"ticker"`
	Local       quotes.QuoteRecord `json:"local"`
	Foreign     quotes.QuoteRecord `json:"foreign"`
	ImpliedRate float64            `json:"implied_rate"`
	GapPercent  float64            `json:"gap_percent"`
	Signal      Signal             `json:"signal"`
}

// View selects which rows a report presents and how they are ordered.
type View string

const (
	// ViewAll presents every row, cheapest gap first.
	ViewAll View = "all"
	// ViewCheaper presents rows whose implied rate is below the
	// reference, ascending by implied rate.
	ViewCheaper View = "cheaper"
	// ViewExpensive presents rows whose implied rate is above the
	// reference, descending by implied rate.
	ViewExpensive View = "expensive"
)

// ParseView parses a view name as it appears in API parameters. The
// empty string means ViewAll.
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ViewAll, nil
	case "cheaper":
		return ViewCheaper, nil
	case "expensive":
		return ViewExpensive, nil
	default:
		return ViewAll, fmt.Errorf("unknown view %q", s)
	}
}

// Summary carries the presentation callouts for one run.
type Summary struct {
	LocalRecords   int     `json:"local_records"`
	ForeignRecords int     `json:"foreign_records"`
	MatchedRecords int     `json:"matched_records"`
	MinGapPercent  float64 `json:"min_gap_percent"`
	MaxGapPercent  float64 `json:"max_gap_percent"`
	MedianGap      float64 `json:"median_gap_percent"`
}

// Report is the terminal output of one analysis run.
type Report struct {
	ReferenceRate float64            `json:"reference_rate"`
	Mode          string             `json:"pricing_mode"`
	View          View               `json:"view"`
	Rows          []AnalysisRow      `json:"rows"`
	Summary       Summary            `json:"summary"`
}

// EmptyJoinError reports that both files loaded but no ticker appeared
// on both sides. Distinct from "no opportunities found": a disjoint
// join usually means the symbol conventions of the two files diverged.
type EmptyJoinError struct {
	LocalRecords   int
	ForeignRecords int
}

// Error implements the error interface.
func (e *EmptyJoinError) Error() string {
	return fmt.Sprintf("no tickers matched between the two files (%d local, %d foreign records)",
		e.LocalRecords, e.ForeignRecords)
}
