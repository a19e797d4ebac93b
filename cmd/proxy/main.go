// Package main is the entry point for the feed proxy: the boundary between
// feed clients and the backend trades API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/whalewatch/engine/internal/config"
	"github.com/whalewatch/engine/internal/feed"
	"github.com/whalewatch/engine/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	slog.Info("proxy starting",
		"backend_url", cfg.BackendURL,
		"listen_addr", cfg.ProxyListenAddr,
		"upstream_timeout", cfg.UpstreamTimeout,
	)

	mux := http.NewServeMux()
	mux.Handle("/api/trades", feed.NewProxy(cfg.BackendURL, cfg.UpstreamTimeout))

	server := &http.Server{
		Addr:         cfg.ProxyListenAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 5*time.Second,
	}

	go func() {
		slog.Info("proxy_listening", "addr", cfg.ProxyListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server_failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	slog.Info("shutdown_signal_received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server_shutdown_failed", "error", err)
	}

	slog.Info("shutdown_complete")
}
