package main

import (
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"paperdex/internal/api"
	"paperdex/internal/config"
	"paperdex/internal/export"
	"paperdex/internal/health"
	"paperdex/internal/logger"
	"paperdex/internal/scan"
	"paperdex/internal/ui"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     100,
		MaxAge:      7,
		MaxBackups:  3,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	client := api.NewClient(api.Options{
		BaseURL:    cfg.APIBaseURL,
		Timeout:    time.Duration(cfg.RequestTimeout) * time.Millisecond,
		Retries:    cfg.Retries,
		RatePerMin: cfg.ScanRateLimit,
	}, appLogger.Logger)
	defer client.Close()

	scanner := scan.NewScanner(client, health.DefaultRules(), cfg.FallbackSupply, appLogger.Logger)
	exporter := export.NewHistoryExporter(appLogger.WithComponent("export"))

	model := ui.New(client, scanner, exporter, ui.Options{
		PollInterval:   time.Duration(cfg.PollInterval) * time.Millisecond,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Millisecond,
		ExportDir:      cfg.ExportDir,
	}, appLogger.Logger)

	appLogger.Info("Starting paper trading dashboard",
		zap.String("api_base_url", cfg.APIBaseURL))

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		appLogger.Error("Dashboard exited with error", zap.Error(err))
	}
}
