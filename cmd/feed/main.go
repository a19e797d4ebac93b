// Package main is the entry point for the feed viewer: a live TUI over the
// proxied insider trade feed, or a one-shot console snapshot.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/whalewatch/engine/internal/config"
	"github.com/whalewatch/engine/internal/feed"
	"github.com/whalewatch/engine/internal/logging"
	"github.com/whalewatch/engine/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	thresholds := feed.BucketThresholds{
		High:   cfg.ScoreHighThreshold,
		Medium: cfg.ScoreMediumThreshold,
	}

	client := feed.NewClient(cfg.FeedURL, cfg.UpstreamTimeout)

	if !cfg.EnableTUI {
		// One-shot mode: a single fetch per activation, printed and done.
		sync := feed.NewSynchronizer(client, nil)
		sync.Refresh(context.Background())
		ui.PrintFeed(os.Stdout, sync.Snapshot(), thresholds)

		if errText := sync.Status().LastError; errText != "" {
			slog.Warn("feed_degraded", "error", errText)
		}
		return
	}

	slog.Info("feed viewer starting",
		"feed_url", cfg.FeedURL,
		"poll_interval", cfg.FeedPollInterval,
		"score_high", cfg.ScoreHighThreshold,
		"score_medium", cfg.ScoreMediumThreshold,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sync := feed.NewSynchronizer(client, nil)
	app := ui.NewApp(sync, thresholds)
	sync.SetOnUpdate(app.OnUpdate())

	go sync.Run(ctx, cfg.FeedPollInterval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		app.Stop()
	}()

	if err := app.Run(cfg.UIRefreshRate); err != nil {
		slog.Error("tui_error", "error", err)
	}

	cancel()
	sync.Close()
	slog.Info("shutdown_complete")
}
