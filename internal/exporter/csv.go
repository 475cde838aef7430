package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"mepscan/internal/arbitrage"
	"mepscan/internal/quotes"
)

// CSVOptions configures CSV writing behavior
type CSVOptions struct {
	// BOMPrefix adds a UTF-8 BOM so Excel recognizes the encoding;
	// the headers carry accented characters.
	BOMPrefix bool
}

// WriteCSV writes an analysis report to w. Column layout follows the
// report's pricing mode: one price pair for last-price, two for the
// bid/ask modes.
func WriteCSV(w io.Writer, report *arbitrage.Report, options CSVOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	bidAsk := usesBidAsk(report.Mode)
	if err := writer.Write(headers(bidAsk)); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range report.Rows {
		if err := writer.Write(record(row, bidAsk)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func usesBidAsk(mode string) bool {
	m, err := quotes.ParsePricingMode(mode)
	if err != nil {
		return false
	}
	return m.UsesBidAsk()
}

func headers(bidAsk bool) []string {
	if bidAsk {
		return []string{"Ticker", "Compra ARS", "Venta ARS", "Compra USD", "Venta USD", "TC Implícito", "Gap %", "Señal"}
	}
	return []string{"Ticker", "Precio ARS", "Precio USD", "TC Implícito", "Gap %", "Señal"}
}

func record(row arbitrage.AnalysisRow, bidAsk bool) []string {
	if bidAsk {
		return []string{
			row.Ticker,
			formatPrice(row.Local.Bid),
			formatPrice(row.Local.Ask),
			formatPrice(row.Foreign.Bid),
			formatPrice(row.Foreign.Ask),
			formatFloat(row.ImpliedRate),
			formatGap(row.GapPercent),
			string(row.Signal),
		}
	}
	return []string{
		row.Ticker,
		formatPrice(row.Local.Last),
		formatPrice(row.Foreign.Last),
		formatFloat(row.ImpliedRate),
		formatGap(row.GapPercent),
		string(row.Signal),
	}
}
