package quotes

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows into a fresh in-memory workbook. String
// values become text cells and float values numeric cells, matching how
// broker exports mix the two.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoaderLastPriceMode(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Cotizaciones del día"},
		{},
		{"Símbolo", "Último Precio ", "Variación"},
		{"GGAL| BYMA", "1.400,50", "+1,2%"},
		{"KO| BYMA", "ARS 2.300,00", "-0,5%"},
		{"YPF| BYMA", "-", ""},
		{"SUSP| BYMA", "0", ""},
		{"| BYMA", "100,00", ""},
	})

	loader := NewLoader(ModeLastPrice, slog.Default())
	records, err := loader.Load(data, Local)
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "GGAL", records[0].Ticker)
	assert.InDelta(t, 1400.50, records[0].Last.Value(), 1e-9)
	assert.Equal(t, "KO", records[1].Ticker)
	assert.InDelta(t, 2300.0, records[1].Last.Value(), 1e-9)

	// An explicit zero survives in last-price mode; only absent quotes
	// and blank tickers drop.
	assert.Equal(t, "SUSP", records[2].Ticker)
	assert.True(t, records[2].Last.Known())
	assert.Equal(t, 0.0, records[2].Last.Value())
}

func TestLoaderHeaderOnFirstRow(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Símbolo", "Último Precio"},
		{"GGAL| BYMA", "1.000,00"},
	})

	loader := NewLoader(ModeLastPrice, slog.Default())
	records, err := loader.Load(data, Local)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "GGAL", records[0].Ticker)
	assert.InDelta(t, 1000.0, records[0].Last.Value(), 1e-9)
}

func TestLoaderNumericCellsSkipSeparatorRules(t *testing.T) {
	// A numeric cell holding 1400.5 must load as 1400.5. Text rules
	// would read the lone dot as a thousands separator.
	data := buildWorkbook(t, [][]any{
		{"Símbolo", "Último Precio"},
		{"GGAL| BYMA", 1400.5},
		{"KO| BYMA", 2115.0},
	})

	loader := NewLoader(ModeLastPrice, slog.Default())
	records, err := loader.Load(data, Local)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.InDelta(t, 1400.5, records[0].Last.Value(), 1e-9)
	assert.InDelta(t, 2115.0, records[1].Last.Value(), 1e-9)
}

func TestLoaderForeignSuffix(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Símbolo", "Último Precio"},
		{"GGALD| BYMA", "7,68"},
		{"AAPLD| BYMA", "12,50"},
	})

	loader := NewLoader(ModeLastPrice, slog.Default())
	records, err := loader.Load(data, Foreign)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "GGAL", records[0].Ticker)
	assert.Equal(t, "AAPL", records[1].Ticker)
	assert.InDelta(t, 7.68, records[0].Last.Value(), 1e-9)
}

func TestLoaderBidAskMode(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Resumen de mercado"},
		{"Símbolo", "Precio Compra", "Precio Venta"},
		{"GGAL| BYMA", "1.390,00", "1.410,00"},
		{"KO| BYMA", "0", "2.310,00"},     // zero bid: no tradable quote
		{"YPF| BYMA", "8.000,00", "-"},    // absent ask
		{"PAMP| BYMA", "1.150,00", "1.170,00"},
	})

	loader := NewLoader(ModeBidAskAverage, slog.Default())
	records, err := loader.Load(data, Local)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "GGAL", records[0].Ticker)
	assert.InDelta(t, 1390.0, records[0].Bid.Value(), 1e-9)
	assert.InDelta(t, 1410.0, records[0].Ask.Value(), 1e-9)
	assert.InDelta(t, 1400.0, records[0].Mid(), 1e-9)
	assert.Equal(t, "PAMP", records[1].Ticker)
}

func TestLoaderDuplicateTickersPreserved(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Símbolo", "Último Precio"},
		{"GGAL| BYMA", "1.000,00"},
		{"GGAL| BYMA 48hs", "1.010,00"},
	})

	loader := NewLoader(ModeLastPrice, slog.Default())
	records, err := loader.Load(data, Local)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "GGAL", records[0].Ticker)
	assert.Equal(t, "GGAL", records[1].Ticker)
}

func TestLoaderMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		mode    PricingMode
		side    Side
		header  []any
		missing []string
	}{
		{
			name:    "last price column absent",
			mode:    ModeLastPrice,
			side:    Local,
			header:  []any{"Símbolo", "Variación"},
			missing: []string{ColumnLast},
		},
		{
			name:    "bid and ask absent",
			mode:    ModeBidAskDirectional,
			side:    Foreign,
			header:  []any{"Símbolo", "Último Precio"},
			missing: []string{ColumnBid, ColumnAsk},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildWorkbook(t, [][]any{tt.header, {"GGAL| BYMA", "1,00"}})

			loader := NewLoader(tt.mode, slog.Default())
			_, err := loader.Load(data, tt.side)
			require.Error(t, err)

			var missingErr *MissingColumnError
			require.True(t, errors.As(err, &missingErr))
			assert.Equal(t, tt.side, missingErr.Side)
			assert.Equal(t, tt.missing, missingErr.Columns)
			assert.Contains(t, missingErr.Error(), tt.side.String())
		})
	}
}

func TestLoaderRejectsGarbageBytes(t *testing.T) {
	loader := NewLoader(ModeLastPrice, slog.Default())
	_, err := loader.Load([]byte("not a workbook"), Local)
	require.Error(t, err)

	var unreadable *UnreadableFileError
	assert.True(t, errors.As(err, &unreadable))
	assert.Equal(t, Local, unreadable.Side)
}

func TestFindHeaderRow(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want int
	}{
		{"header first", [][]string{{"Símbolo", "Último Precio"}}, 0},
		{"header after preamble", [][]string{{"Informe"}, {}, {"Símbolo", "Último Precio"}}, 2},
		{"case insensitive", [][]string{{"título"}, {"SÍMBOLO", "PRECIO"}}, 1},
		{"no marker defaults to first", [][]string{{"Ticker", "Price"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findHeaderRow(tt.rows))
		})
	}
}
