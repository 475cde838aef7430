package quotes

import "strings"

// NormalizeTicker extracts the canonical instrument identity from a
// composite symbol cell like "AAPLD| NASDAQ". The part before the first
// "|" is the exchange symbol; on the foreign side a trailing "D" is the
// dollar-listing suffix and is stripped so both legs share one identity.
//
// Tickers that legitimately end in "D" are indistinguishable from the
// suffix convention on the foreign side. That is a known limitation of
// the naming scheme, not something to guess around.
//
// Returns "" for a missing symbol; callers drop those rows.
func NormalizeTicker(symbol string, side Side) string {
	ticker := symbol
	if i := strings.Index(ticker, "|"); i >= 0 {
		ticker = ticker[:i]
	}
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return ""
	}
	if side == Foreign && strings.HasSuffix(ticker, "D") {
		ticker = ticker[:len(ticker)-1]
	}
	return ticker
}
