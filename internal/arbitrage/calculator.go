package arbitrage

import (
	"fmt"
	"sort"

	"mepscan/internal/quotes"
)

// Compute derives one analysis row per matched record.
//
// Implied rate by mode:
//   - last-price:          localLast / foreignLast
//   - bid-ask-average:     localMid / foreignMid
//   - bid-ask-directional: localAsk / foreignBid
//
// Rows whose denominator is not strictly positive are dropped; a free
// or suspended foreign leg yields no meaningful rate. The gap is the
// percentage deviation from the reference rate, negative when buying
// the instrument in pesos beats the reference conversion. Output is
// sorted ascending by gap, cheapest first.
func Compute(matched []MatchedRecord, referenceRate float64, mode quotes.PricingMode, thresholds Thresholds) ([]AnalysisRow, error) {
	if referenceRate <= 0 {
		return nil, fmt.Errorf("reference rate must be positive, got %v", referenceRate)
	}

	rows := make([]AnalysisRow, 0, len(matched))
	for _, m := range matched {
		implied, ok := impliedRate(m, mode)
		if !ok {
			continue
		}
		gap := (implied/referenceRate - 1) * 100
		rows = append(rows, AnalysisRow{
			Ticker:      m.Ticker,
			Local:       m.Local,
			Foreign:     m.Foreign,
			ImpliedRate: implied,
			GapPercent:  gap,
			Signal:      thresholds.Classify(gap),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].GapPercent < rows[j].GapPercent
	})
	return rows, nil
}

func impliedRate(m MatchedRecord, mode quotes.PricingMode) (float64, bool) {
	switch mode {
	case quotes.ModeBidAskAverage:
		foreignMid := m.Foreign.Mid()
		if foreignMid <= 0 {
			return 0, false
		}
		return m.Local.Mid() / foreignMid, true
	case quotes.ModeBidAskDirectional:
		if !m.Foreign.Bid.Positive() {
			return 0, false
		}
		return m.Local.Ask.Value() / m.Foreign.Bid.Value(), true
	default:
		if !m.Foreign.Last.Positive() {
			return 0, false
		}
		return m.Local.Last.Value() / m.Foreign.Last.Value(), true
	}
}

// ApplyView filters and reorders computed rows for presentation. The
// input is the gap-ascending output of Compute; ViewAll returns it
// unchanged. Filters never invent rows, they only narrow and reorder.
func ApplyView(rows []AnalysisRow, view View, referenceRate float64) []AnalysisRow {
	switch view {
	case ViewCheaper:
		out := make([]AnalysisRow, 0, len(rows))
		for _, r := range rows {
			if r.ImpliedRate < referenceRate {
				out = append(out, r)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ImpliedRate < out[j].ImpliedRate
		})
		return out
	case ViewExpensive:
		out := make([]AnalysisRow, 0, len(rows))
		for _, r := range rows {
			if r.ImpliedRate > referenceRate {
				out = append(out, r)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ImpliedRate > out[j].ImpliedRate
		})
		return out
	default:
		return rows
	}
}

// Summarize computes the presentation callouts from gap-ascending rows.
func Summarize(rows []AnalysisRow, localCount, foreignCount int) Summary {
	s := Summary{
		LocalRecords:   localCount,
		ForeignRecords: foreignCount,
		MatchedRecords: len(rows),
	}
	if len(rows) == 0 {
		return s
	}
	s.MinGapPercent = rows[0].GapPercent
	s.MaxGapPercent = rows[len(rows)-1].GapPercent
	mid := len(rows) / 2
	if len(rows)%2 == 1 {
		s.MedianGap = rows[mid].GapPercent
	} else {
		s.MedianGap = (rows[mid-1].GapPercent + rows[mid].GapPercent) / 2
	}
	return s
}
