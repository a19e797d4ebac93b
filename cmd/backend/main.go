// Package main is the entry point for the whale watcher backend: the poll
// and score loop plus the trades API the feed proxy consumes.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/whalewatch/engine/internal/api"
	"github.com/whalewatch/engine/internal/config"
	"github.com/whalewatch/engine/internal/ingest"
	"github.com/whalewatch/engine/internal/logging"
	"github.com/whalewatch/engine/internal/scoring"
	"github.com/whalewatch/engine/internal/store"
	"github.com/whalewatch/engine/internal/watcher"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	slog.Info("backend starting",
		"polymarket_data_url", cfg.PolymarketDataURL,
		"poll_interval", cfg.TradePollInterval,
		"trade_limit", cfg.RecentTradeLimit,
		"min_notional_usd", cfg.MinNotionalUSD,
		"min_insider_score", cfg.MinInsiderScore,
		"db_path", cfg.DBPath,
		"listen_addr", cfg.BackendListenAddr,
	)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}

	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	thresholds := scoring.Thresholds{
		MinNotionalUSD:     cfg.MinNotionalUSD,
		NewWalletMaxTrades: cfg.NewWalletMaxTrades,
		MaxWalletTrades:    cfg.MaxWalletTrades,
		MinPriceDeviation:  cfg.MinPriceDeviation,
		MinScore:           cfg.MinInsiderScore,
	}

	client := ingest.NewTradesClient(cfg.PolymarketDataURL)
	watch := watcher.New(client, st, thresholds, cfg.RecentTradeLimit)
	go watch.Run(ctx, cfg.TradePollInterval)

	server := &http.Server{
		Addr:         cfg.BackendListenAddr,
		Handler:      api.NewServer(st, watch).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("backend_api_listening", "addr", cfg.BackendListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server_failed", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("shutdown_signal_received", "signal", sig.String())
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server_shutdown_failed", "error", err)
	}

	slog.Info("shutdown_complete")
}
