package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kjannette/trahn-stocks-backend/internal/api"
	"github.com/kjannette/trahn-stocks-backend/internal/config"
	"github.com/kjannette/trahn-stocks-backend/internal/external"
	"github.com/kjannette/trahn-stocks-backend/internal/ledger"
	"github.com/kjannette/trahn-stocks-backend/internal/logging"
	"github.com/kjannette/trahn-stocks-backend/internal/market"
	"github.com/kjannette/trahn-stocks-backend/internal/notifications"
	"github.com/kjannette/trahn-stocks-backend/internal/portfolio"
	"github.com/kjannette/trahn-stocks-backend/internal/risk"
	"github.com/kjannette/trahn-stocks-backend/internal/scheduler"
)

const banner = `
╔══════════════════════════════════════╗
║     TRAHN Stocks Dashboard v0.3      ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	if cfg.StoreDriver == config.StoreDriverSQLite {
		fmt.Printf("\n[DB] Opening SQLite ledger at %s ...\n", cfg.SQLitePath)
	} else {
		fmt.Printf("\n[DB] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
	store, err := ledger.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		store.Close()
		fmt.Println("[DB] Ledger closed")
	}()

	quotes := external.NewQuoteChain(cfg, log)
	classifier := market.NewClassifier(loc)
	analyzer := portfolio.NewAnalyzer(loc)
	guardian := risk.NewGuardian(risk.Limits{
		StopLossPercent:   cfg.StopLossPercent,
		TakeProfitPercent: cfg.TakeProfitPercent,
	})
	notify := notifications.NewSender(cfg.WebhookURL, cfg.BotName, log)
	hub := api.NewHub(log, cfg.CORSAllowOrigin)

	// 1. API server
	srv := api.NewServer(api.Deps{
		Store:      store,
		Quotes:     quotes,
		Classifier: classifier,
		Analyzer:   analyzer,
		Hub:        hub,
		Log:        log,
	}, api.Options{
		Port:        cfg.APIPort,
		APIKey:      cfg.APIKey,
		CORSOrigin:  cfg.CORSAllowOrigin,
		AlertsLimit: cfg.AlertsLimit,
	})
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("api server failed", zap.Error(err))
			stop()
		}
	}()

	// 2. Portfolio poller
	poller := scheduler.NewPoller(store, classifier, analyzer, guardian, notify, log, scheduler.PollerConfig{
		Interval: cfg.PollInterval(),
		OnCycle:  func(c scheduler.Cycle) { hub.Publish(c) },
	})
	poller.Start()

	fmt.Println("\nAll services started successfully")

	// Wait for shutdown signal
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	poller.Stop()
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}
