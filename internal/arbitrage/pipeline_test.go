package arbitrage

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mepscan/internal/quotes"
)

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestPipelineRunLastPrice(t *testing.T) {
	local := workbook(t, [][]any{
		{"Panel CEDEARs en pesos"},
		{"Símbolo", "Último Precio"},
		{"GGAL| BYMA", "1.000,00"},
		{"KO| BYMA", "2.310,00"},
		{"SOLO| BYMA", "500,00"},
	})
	foreign := workbook(t, [][]any{
		{"Panel CEDEARs en dólares"},
		{"Símbolo", "Último Precio"},
		{"GGALD| BYMA", "1,00"},
		{"KOD| BYMA", "2,10"},
	})

	p := NewPipeline(quotes.ModeLastPrice, DefaultThresholds(), slog.Default())
	report, err := p.Run(context.Background(), local, foreign, 1100, ViewAll)
	require.NoError(t, err)

	assert.InDelta(t, 1100.0, report.ReferenceRate, 1e-9)
	assert.Equal(t, "last-price", report.Mode)
	require.Len(t, report.Rows, 2)

	// GGAL implies 1000, KO implies 1100; cheapest gap first.
	assert.Equal(t, "GGAL", report.Rows[0].Ticker)
	assert.InDelta(t, 1000.0, report.Rows[0].ImpliedRate, 1e-9)
	assert.InDelta(t, -9.09, report.Rows[0].GapPercent, 0.01)
	assert.Equal(t, SignalStrong, report.Rows[0].Signal)

	assert.Equal(t, "KO", report.Rows[1].Ticker)
	assert.InDelta(t, 1100.0, report.Rows[1].ImpliedRate, 1e-9)

	assert.Equal(t, 3, report.Summary.LocalRecords)
	assert.Equal(t, 2, report.Summary.ForeignRecords)
	assert.Equal(t, 2, report.Summary.MatchedRecords)
}

func TestPipelineRunEmptyJoin(t *testing.T) {
	local := workbook(t, [][]any{
		{"Símbolo", "Último Precio"},
		{"GGAL| BYMA", "1.000,00"},
	})
	foreign := workbook(t, [][]any{
		{"Símbolo", "Último Precio"},
		{"AAPLD| BYMA", "12,50"},
	})

	p := NewPipeline(quotes.ModeLastPrice, DefaultThresholds(), slog.Default())
	_, err := p.Run(context.Background(), local, foreign, 1100, ViewAll)
	require.Error(t, err)

	var emptyErr *EmptyJoinError
	require.True(t, errors.As(err, &emptyErr))
	assert.Equal(t, 1, emptyErr.LocalRecords)
	assert.Equal(t, 1, emptyErr.ForeignRecords)
}

func TestPipelineRunMissingColumnNamesSide(t *testing.T) {
	local := workbook(t, [][]any{
		{"Símbolo", "Último Precio"},
		{"GGAL| BYMA", "1.000,00"},
	})
	foreign := workbook(t, [][]any{
		{"Símbolo", "Variación"},
		{"GGALD| BYMA", "+1%"},
	})

	p := NewPipeline(quotes.ModeLastPrice, DefaultThresholds(), slog.Default())
	_, err := p.Run(context.Background(), local, foreign, 1100, ViewAll)
	require.Error(t, err)

	var missing *quotes.MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, quotes.Foreign, missing.Side)
	assert.Equal(t, []string{quotes.ColumnLast}, missing.Columns)
}

func TestPipelineRunDirectional(t *testing.T) {
	local := workbook(t, [][]any{
		{"Símbolo", "Precio Compra", "Precio Venta"},
		{"GGAL| BYMA", "1.390,00", "1.410,00"},
	})
	foreign := workbook(t, [][]any{
		{"Símbolo", "Precio Compra", "Precio Venta"},
		{"GGALD| BYMA", "1,30", "1,32"},
	})

	p := NewPipeline(quotes.ModeBidAskDirectional, DefaultThresholds(), slog.Default())
	report, err := p.Run(context.Background(), local, foreign, 1100, ViewAll)
	require.NoError(t, err)

	require.Len(t, report.Rows, 1)
	assert.InDelta(t, 1410.0/1.30, report.Rows[0].ImpliedRate, 1e-9)
}

func TestPipelineRunRejectsBadReferenceRate(t *testing.T) {
	local := workbook(t, [][]any{
		{"Símbolo", "Último Precio"},
		{"GGAL| BYMA", "1.000,00"},
	})
	foreign := workbook(t, [][]any{
		{"Símbolo", "Último Precio"},
		{"GGALD| BYMA", "1,00"},
	})

	p := NewPipeline(quotes.ModeLastPrice, DefaultThresholds(), slog.Default())
	_, err := p.Run(context.Background(), local, foreign, 0, ViewAll)
	assert.Error(t, err)
}
