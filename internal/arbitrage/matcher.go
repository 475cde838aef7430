package arbitrage

import "mepscan/internal/quotes"

// Match inner-joins the two quote sets on ticker. Instruments quoted on
// only one side are dropped; a ticker duplicated within a side emits
// the full local-foreign cross-product, leaving the duplication visible
// to the caller instead of silently deduplicating it.
//
// Output order is deterministic: local file order, then foreign file
// order within each local record.
func Match(local, foreign []quotes.QuoteRecord) []MatchedRecord {
	byTicker := make(map[string][]quotes.QuoteRecord, len(foreign))
	for _, f := range foreign {
		byTicker[f.Ticker] = append(byTicker[f.Ticker], f)
	}

	var matched []MatchedRecord
	for _, l := range local {
		for _, f := range byTicker[l.Ticker] {
			matched = append(matched, MatchedRecord{
				Ticker:  l.Ticker,
				Local:   l,
				Foreign: f,
			})
		}
	}
	return matched
}
