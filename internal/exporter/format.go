// Package exporter renders analysis reports as CSV and aligned text
// tables for the CLI.
package exporter

import (
	"fmt"

	"mepscan/internal/quotes"
)

// formatFloat formats a value with exactly 2 decimal places so 13.4
// exports as 13.40.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatGap keeps the sign visible; the sign is the signal.
func formatGap(f float64) string {
	return fmt.Sprintf("%+.2f%%", f)
}

// formatPrice renders an absent quote as "-", matching the source files.
func formatPrice(p quotes.Price) string {
	if !p.Known() {
		return "-"
	}
	return formatFloat(p.Value())
}
