package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"paperdex/internal/portfolio"
)

// Format is the export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Options configures which history entries get exported and where.
type Options struct {
	Format      Format
	StartTime   time.Time
	EndTime     time.Time
	TokenFilter string         // filter by token mint
	SideFilter  portfolio.Side // filter by trade side
	OutputDir   string
}

// HistoryExporter writes trade history to disk.
type HistoryExporter struct {
	logger *zap.Logger
}

// NewHistoryExporter creates a new exporter.
func NewHistoryExporter(logger *zap.Logger) *HistoryExporter {
	return &HistoryExporter{logger: logger}
}

// Export filters, sorts and writes the history, returning the output path.
func (he *HistoryExporter) Export(history []portfolio.HistoryEntry, options Options) (string, error) {
	filtered := he.filter(history, options)
	if len(filtered) == 0 {
		return "", fmt.Errorf("no trades match the export criteria")
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.Before(filtered[j].Timestamp)
	})

	outputPath := filepath.Join(options.OutputDir, he.filename(options))
	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = he.writeCSV(filtered, outputPath)
	case FormatJSON:
		err = he.writeJSON(filtered, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}
	if err != nil {
		return "", err
	}

	he.logger.Info("History exported",
		zap.String("file", outputPath),
		zap.Int("count", len(filtered)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

func (he *HistoryExporter) filter(history []portfolio.HistoryEntry, options Options) []portfolio.HistoryEntry {
	var filtered []portfolio.HistoryEntry

	for _, entry := range history {
		if !options.StartTime.IsZero() && entry.Timestamp.Before(options.StartTime) {
			continue
		}
		if !options.EndTime.IsZero() && entry.Timestamp.After(options.EndTime) {
			continue
		}
		if options.TokenFilter != "" && entry.TokenMint != options.TokenFilter {
			continue
		}
		if options.SideFilter != "" && entry.Side != options.SideFilter {
			continue
		}
		filtered = append(filtered, entry)
	}

	return filtered
}

func (he *HistoryExporter) filename(options Options) string {
	timestamp := time.Now().Format("20060102_150405")

	prefix := "trades_all"
	if options.SideFilter != "" {
		prefix = fmt.Sprintf("trades_%s", options.SideFilter)
	}
	if options.TokenFilter != "" && len(options.TokenFilter) >= 8 {
		prefix += "_" + options.TokenFilter[:8]
	}

	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

// CSVHeaders returns the header row for exported CSV files.
func CSVHeaders() []string {
	return []string{
		"id",
		"timestamp",
		"side",
		"token_mint",
		"name",
		"symbol",
		"price",
		"quantity",
		"value",
		"fee",
		"market_cap_at_trade",
	}
}

func toCSV(entry portfolio.HistoryEntry) []string {
	marketCap := ""
	if entry.MarketCapAtTrade != nil {
		marketCap = strconv.FormatFloat(*entry.MarketCapAtTrade, 'f', 2, 64)
	}
	return []string{
		entry.ID,
		entry.Timestamp.Format(time.RFC3339),
		string(entry.Side),
		entry.TokenMint,
		entry.Name,
		entry.Symbol,
		strconv.FormatFloat(entry.Price, 'f', -1, 64),
		strconv.FormatFloat(entry.Quantity, 'f', -1, 64),
		strconv.FormatFloat(entry.Value, 'f', -1, 64),
		strconv.FormatFloat(entry.Fee, 'f', -1, 64),
		marketCap,
	}
}

func (he *HistoryExporter) writeCSV(history []portfolio.HistoryEntry, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, entry := range history {
		if err := writer.Write(toCSV(entry)); err != nil {
			return fmt.Errorf("failed to write trade: %w", err)
		}
	}

	return nil
}

func (he *HistoryExporter) writeJSON(history []portfolio.HistoryEntry, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	exportData := struct {
		ExportTime time.Time                `json:"export_time"`
		TradeCount int                      `json:"trade_count"`
		Trades     []portfolio.HistoryEntry `json:"trades"`
		Summary    Summary                  `json:"summary"`
	}{
		ExportTime: time.Now(),
		TradeCount: len(history),
		Trades:     history,
		Summary:    calculateSummary(history),
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// Summary contains aggregate statistics for an export.
type Summary struct {
	TotalTrades     int       `json:"total_trades"`
	BuyCount        int       `json:"buy_count"`
	SellCount       int       `json:"sell_count"`
	UniqueTokens    int       `json:"unique_tokens"`
	TotalBuyVolume  float64   `json:"total_buy_volume"`
	TotalSellVolume float64   `json:"total_sell_volume"`
	TotalFees       float64   `json:"total_fees"`
	RealizedPnL     float64   `json:"realized_pnl"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
}

func calculateSummary(history []portfolio.HistoryEntry) Summary {
	summary := Summary{TotalTrades: len(history)}
	if len(history) == 0 {
		return summary
	}

	summary.StartDate = history[0].Timestamp
	summary.EndDate = history[len(history)-1].Timestamp

	tokenSet := make(map[string]bool)
	for _, entry := range history {
		tokenSet[entry.TokenMint] = true
		summary.TotalFees += entry.Fee

		switch entry.Side {
		case portfolio.SideBuy:
			summary.BuyCount++
			summary.TotalBuyVolume += entry.Value
		case portfolio.SideSell:
			summary.SellCount++
			summary.TotalSellVolume += entry.Value
		}
	}

	summary.UniqueTokens = len(tokenSet)
	summary.RealizedPnL = summary.TotalSellVolume - summary.TotalBuyVolume - summary.TotalFees

	return summary
}
