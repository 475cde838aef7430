package quotes

import (
	"strconv"
	"strings"
)

// currencyPrefixes are stripped from price text before separator handling.
// Matching is case-insensitive.
var currencyPrefixes = []string{"ARS", "USD", "$"}

// ParsePrice converts broker price text into a Price, resolving the
// latin/anglo separator ambiguity. Blank cells and the "-" placeholder
// mean no quote, as does text that still fails to parse after cleaning.
//
// Separator rule: "1.234,56" reads the dot as thousands, "1,234.56" the
// comma; a lone comma is the decimal separator ("7,680" is 7.68) and a
// lone dot is a thousands separator ("11.400" is 11400). The lone-dot
// rule follows the broker exports this tool consumes, where last prices
// are quoted with comma decimals.
func ParsePrice(raw string) Price {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return NoQuote()
	}

	s = stripCurrencyPrefix(s)

	dot := strings.Index(s, ".")
	comma := strings.Index(s, ",")
	switch {
	case dot >= 0 && comma >= 0 && dot < comma:
		// 1.234,56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case dot >= 0 && comma >= 0:
		// 1,234.56
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		// 7,680
		s = strings.ReplaceAll(s, ",", ".")
	case dot >= 0:
		// 11.400
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NoQuote()
	}
	return PriceOf(v)
}

// ParseNumericCell converts a cell the workbook stores as a number. The
// value arrives in plain strconv form, so no separator heuristics apply;
// running them here would corrupt unambiguous values like "1400.5".
func ParseNumericCell(raw string) Price {
	s := strings.TrimSpace(raw)
	if s == "" {
		return NoQuote()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Formatted numeric cells can render with grouping applied;
		// fall back to the text rules.
		return ParsePrice(s)
	}
	return PriceOf(v)
}

func stripCurrencyPrefix(s string) string {
	upper := strings.ToUpper(s)
	for _, prefix := range currencyPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return strings.TrimSpace(s[len(prefix):])
		}
	}
	return s
}
