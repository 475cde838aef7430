package quotes

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Side identifies which currency leg a spreadsheet belongs to.
type Side int

const (
	// Local is the peso-denominated export.
	Local Side = iota
	// Foreign is the dollar-denominated export, whose symbols carry the "D" suffix.
	Foreign
)

// String returns the string representation of the side.
func (s Side) String() string {
	switch s {
	case Local:
		return "local"
	case Foreign:
		return "foreign"
	default:
		return "unknown"
	}
}

// PricingMode selects which price columns are loaded and how the implied
// rate is later derived from them.
type PricingMode int

const (
	// ModeLastPrice uses the single "Último Precio" column.
	ModeLastPrice PricingMode = iota
	// ModeBidAskAverage uses bid/ask mid prices on both legs.
	ModeBidAskAverage
	// ModeBidAskDirectional uses local ask against foreign bid, the
	// executable cost of buying in pesos and liquidating in dollars.
	ModeBidAskDirectional
)

// String returns the string representation of the pricing mode.
func (m PricingMode) String() string {
	switch m {
	case ModeLastPrice:
		return "last-price"
	case ModeBidAskAverage:
		return "bid-ask-average"
	case ModeBidAskDirectional:
		return "bid-ask-directional"
	default:
		return "unknown"
	}
}

// UsesBidAsk reports whether the mode loads the bid/ask column pair
// instead of the single last-price column.
func (m PricingMode) UsesBidAsk() bool {
	return m == ModeBidAskAverage || m == ModeBidAskDirectional
}

// ParsePricingMode parses a pricing mode name as it appears in
// configuration and API parameters.
func ParsePricingMode(s string) (PricingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "last-price", "last":
		return ModeLastPrice, nil
	case "bid-ask-average", "average":
		return ModeBidAskAverage, nil
	case "bid-ask-directional", "directional":
		return ModeBidAskDirectional, nil
	default:
		return ModeLastPrice, fmt.Errorf("unknown pricing mode %q", s)
	}
}

// Price is a parsed price cell. A cell with no tradable quote (blank,
// "-", or unparseable text) is absent rather than zero, so the liquidity
// filter can tell "no quote" apart from an explicit zero price.
type Price struct {
	value float64
	known bool
}

// PriceOf returns a known price.
func PriceOf(v float64) Price {
	return Price{value: v, known: true}
}

// NoQuote returns the absent price.
func NoQuote() Price {
	return Price{}
}

// Known reports whether the cell carried a parseable quote.
func (p Price) Known() bool {
	return p.known
}

// Value returns the parsed price, or zero when absent.
func (p Price) Value() float64 {
	return p.value
}

// Positive reports whether the price is a known, strictly positive quote.
func (p Price) Positive() bool {
	return p.known && p.value > 0
}

// MarshalJSON encodes an absent price as null.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.known {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

// UnmarshalJSON decodes null as the absent price.
func (p *Price) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = NoQuote()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = PriceOf(v)
	return nil
}

// QuoteRecord is one instrument's cleaned row from a spreadsheet export.
// Which price fields are set depends on the pricing mode the loader ran
// under: Last for last-price mode, Bid and Ask for the bid/ask modes.
type QuoteRecord struct {
	Ticker string `json:"ticker"`
	Last   Price  `json:"last,omitempty"`
	Bid    Price  `json:"bid,omitempty"`
	Ask    Price  `json:"ask,omitempty"`
}

// Mid returns the bid/ask midpoint. Zero when either leg is absent.
func (q QuoteRecord) Mid() float64 {
	if !q.Bid.Known() || !q.Ask.Known() {
		return 0
	}
	return (q.Bid.Value() + q.Ask.Value()) / 2
}

// UnreadableFileError reports that an upload could not be opened as a
// workbook at all.
type UnreadableFileError struct {
	Side Side
	Err  error
}

// Error implements the error interface.
func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("%s file is not a readable workbook: %v", e.Side, e.Err)
}

// Unwrap returns the underlying open error.
func (e *UnreadableFileError) Unwrap() error {
	return e.Err
}

// MissingColumnError reports that a spreadsheet survived header discovery
// but lacks columns the active pricing mode requires.
type MissingColumnError struct {
	Side    Side
	Columns []string
}

// Error implements the error interface.
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s file is missing required columns: %s",
		e.Side, strings.Join(e.Columns, ", "))
}
