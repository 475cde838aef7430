package quotes

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Canonical column headers in the broker exports. Header cells commonly
// carry trailing whitespace, so lookups trim before comparing.
const (
	ColumnSymbol = "Símbolo"
	ColumnLast   = "Último Precio"
	ColumnBid    = "Precio Compra"
	ColumnAsk    = "Precio Venta"
)

// headerMarker is the cell content that identifies the header row during
// discovery. Matching is a case-insensitive substring test.
const headerMarker = "símbolo"

// Loader reads one spreadsheet export into quote records for the
// configured pricing mode.
type Loader struct {
	mode   PricingMode
	logger *slog.Logger
}

// NewLoader creates a loader for the given pricing mode.
func NewLoader(mode PricingMode, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{mode: mode, logger: logger}
}

// Load parses an in-memory workbook for one currency side. The first
// sheet is read, the header row is discovered by content, the required
// columns for the pricing mode are validated, and each data row is
// normalized into a QuoteRecord. Rows without a usable ticker or the
// required quotes are dropped.
func (l *Loader) Load(data []byte, side Side) ([]QuoteRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &UnreadableFileError{Side: side, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s workbook has no sheets", side)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet %q: %w", side, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s sheet %q is empty", side, sheet)
	}

	headerRow := findHeaderRow(rows)
	columns := mapColumns(rows[headerRow])

	l.logger.Debug("header row discovered",
		slog.String("side", side.String()),
		slog.String("sheet", sheet),
		slog.Int("header_row", headerRow),
		slog.Int("columns", len(columns)))

	if missing := missingColumns(columns, l.requiredColumns()); len(missing) > 0 {
		return nil, &MissingColumnError{Side: side, Columns: missing}
	}

	var records []QuoteRecord
	for i := headerRow + 1; i < len(rows); i++ {
		rec, ok := l.parseRow(f, sheet, rows[i], i, columns, side)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	l.logger.Info("spreadsheet loaded",
		slog.String("side", side.String()),
		slog.String("mode", l.mode.String()),
		slog.Int("total_rows", len(rows)-headerRow-1),
		slog.Int("records", len(records)))

	return records, nil
}

// findHeaderRow scans top-down for a row containing the symbol-column
// marker. Falls back to the first row when no marker exists; exports
// that already start with the header pass through unchanged.
func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), headerMarker) {
				return i
			}
		}
	}
	return 0
}

// mapColumns maps trimmed header names to column indexes. The first
// occurrence wins when a header repeats.
func mapColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, exists := columns[name]; !exists {
			columns[name] = i
		}
	}
	return columns
}

func (l *Loader) requiredColumns() []string {
	if l.mode.UsesBidAsk() {
		return []string{ColumnSymbol, ColumnBid, ColumnAsk}
	}
	return []string{ColumnSymbol, ColumnLast}
}

func missingColumns(columns map[string]int, required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// parseRow converts one data row, applying the per-mode drop rules:
// bid/ask mode requires strictly positive bid and ask (a zero leg means
// no tradable quote); last-price mode keeps an explicit zero but drops
// rows whose price cell had no quote at all.
func (l *Loader) parseRow(f *excelize.File, sheet string, row []string, rowIdx int, columns map[string]int, side Side) (QuoteRecord, bool) {
	symbol := cellAt(row, columns[ColumnSymbol])
	ticker := NormalizeTicker(symbol, side)
	if ticker == "" {
		return QuoteRecord{}, false
	}

	rec := QuoteRecord{Ticker: ticker}
	if l.mode.UsesBidAsk() {
		rec.Bid = l.priceAt(f, sheet, row, rowIdx, columns[ColumnBid])
		rec.Ask = l.priceAt(f, sheet, row, rowIdx, columns[ColumnAsk])
		if !rec.Bid.Positive() || !rec.Ask.Positive() {
			return QuoteRecord{}, false
		}
		return rec, true
	}

	rec.Last = l.priceAt(f, sheet, row, rowIdx, columns[ColumnLast])
	if !rec.Last.Known() {
		return QuoteRecord{}, false
	}
	return rec, true
}

// priceAt parses one price cell. Cells the workbook stores as text go
// through the full locale rules; cells stored as numbers are already
// unambiguous and parse directly, so grouping heuristics never touch
// them.
func (l *Loader) priceAt(f *excelize.File, sheet string, row []string, rowIdx, colIdx int) Price {
	raw := cellAt(row, colIdx)
	if raw == "" {
		return NoQuote()
	}

	cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
	if err != nil {
		return ParsePrice(raw)
	}
	cellType, err := f.GetCellType(sheet, cellName)
	if err != nil {
		return ParsePrice(raw)
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return ParsePrice(raw)
	default:
		return ParseNumericCell(raw)
	}
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
