package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paperdex/internal/portfolio"
)

func testHistory(base time.Time) []portfolio.HistoryEntry {
	return []portfolio.HistoryEntry{
		{ID: "t1", Timestamp: base, Side: portfolio.SideBuy, TokenMint: "mintA", Symbol: "AAA", Price: 2, Quantity: 10, Value: 20, Fee: 0.1},
		{ID: "t2", Timestamp: base.Add(time.Hour), Side: portfolio.SideSell, TokenMint: "mintA", Symbol: "AAA", Price: 3, Quantity: 10, Value: 30, Fee: 0.1},
		{ID: "t3", Timestamp: base.Add(2 * time.Hour), Side: portfolio.SideBuy, TokenMint: "mintB", Symbol: "BBB", Price: 1, Quantity: 5, Value: 5},
	}
}

func TestExportCSV(t *testing.T) {
	exporter := NewHistoryExporter(zap.NewNop())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	path, err := exporter.Export(testHistory(base), Options{
		Format:    FormatCSV,
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4) // header + 3 entries
	assert.Equal(t, CSVHeaders(), records[0])
	assert.Equal(t, "t1", records[1][0])
	assert.Equal(t, "buy", records[1][2])
	assert.Equal(t, "mintA", records[1][3])
}

func TestExportJSONIncludesSummary(t *testing.T) {
	exporter := NewHistoryExporter(zap.NewNop())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	path, err := exporter.Export(testHistory(base), Options{
		Format:    FormatJSON,
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, ".json", filepath.Ext(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"trade_count": 3`)
	assert.Contains(t, string(raw), `"unique_tokens": 2`)
}

func TestExportSideFilter(t *testing.T) {
	exporter := NewHistoryExporter(zap.NewNop())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	path, err := exporter.Export(testHistory(base), Options{
		Format:     FormatCSV,
		SideFilter: portfolio.SideSell,
		OutputDir:  t.TempDir(),
	})
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "t2", records[1][0])
}

func TestExportTimeFilter(t *testing.T) {
	exporter := NewHistoryExporter(zap.NewNop())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	path, err := exporter.Export(testHistory(base), Options{
		Format:    FormatCSV,
		StartTime: base.Add(90 * time.Minute),
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "t3", records[1][0])
}

func TestExportNoMatchesFails(t *testing.T) {
	exporter := NewHistoryExporter(zap.NewNop())

	_, err := exporter.Export(nil, Options{
		Format:    FormatCSV,
		OutputDir: t.TempDir(),
	})
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	exporter := NewHistoryExporter(zap.NewNop())

	tests := []struct {
		options Options
		prefix  string
		ext     string
	}{
		{Options{Format: FormatCSV}, "trades_all", ".csv"},
		{Options{Format: FormatJSON, SideFilter: portfolio.SideBuy}, "trades_buy", ".json"},
		{Options{Format: FormatCSV, SideFilter: portfolio.SideSell, TokenFilter: "mintABCD1234"}, "trades_sell_mintABCD", ".csv"},
	}

	for _, tt := range tests {
		name := exporter.filename(tt.options)
		assert.True(t, len(name) > len(tt.prefix) && name[:len(tt.prefix)] == tt.prefix,
			"expected %q to start with %q", name, tt.prefix)
		assert.Equal(t, tt.ext, filepath.Ext(name))
	}
}

func TestCalculateSummary(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	summary := calculateSummary(testHistory(base))

	assert.Equal(t, 3, summary.TotalTrades)
	assert.Equal(t, 2, summary.BuyCount)
	assert.Equal(t, 1, summary.SellCount)
	assert.Equal(t, 2, summary.UniqueTokens)
	assert.InDelta(t, 25.0, summary.TotalBuyVolume, 1e-9)
	assert.InDelta(t, 30.0, summary.TotalSellVolume, 1e-9)
	assert.InDelta(t, 0.2, summary.TotalFees, 1e-9)
	assert.InDelta(t, 4.8, summary.RealizedPnL, 1e-9)
	assert.Equal(t, base, summary.StartDate)
	assert.Equal(t, base.Add(2*time.Hour), summary.EndDate)
}
