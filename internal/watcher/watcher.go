// Package watcher polls the Polymarket data API, scores trades for insider
// likelihood, and persists the suspicious ones for the feed to serve.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/whalewatch/engine/internal/ingest"
	"github.com/whalewatch/engine/internal/scoring"
	"github.com/whalewatch/engine/internal/store"
)

const (
	// priceWindowSize caps the rolling per-market price window
	priceWindowSize = 200
	// minMedianSamples is the minimum window size before a median is trusted
	minMedianSamples = 5
)

// TradeSource fetches recent trades from the data API.
type TradeSource interface {
	RecentTrades(ctx context.Context, limit int) ([]ingest.MarketTrade, error)
}

// TradeSink persists flagged trades.
type TradeSink interface {
	InsertTrade(ctx context.Context, t store.InsiderTrade) error
}

// walletStats tracks per-wallet observation history.
type walletStats struct {
	firstSeen  int64
	tradeCount int
}

// Watcher runs the poll-score-persist loop. Not safe for concurrent use;
// run one Watcher per process.
type Watcher struct {
	source     TradeSource
	sink       TradeSink
	thresholds scoring.Thresholds
	tradeLimit int

	wallets map[string]*walletStats
	prices  map[string][]float64 // conditionID -> rolling price window
	stats   *statsTracker
}

// New creates a Watcher.
func New(source TradeSource, sink TradeSink, thresholds scoring.Thresholds, tradeLimit int) *Watcher {
	if tradeLimit <= 0 {
		tradeLimit = ingest.DefaultTradeLimit
	}

	return &Watcher{
		source:     source,
		sink:       sink,
		thresholds: thresholds,
		tradeLimit: tradeLimit,
		wallets:    make(map[string]*walletStats),
		prices:     make(map[string][]float64),
		stats:      newStatsTracker(),
	}
}

// Run polls at the given interval until the context is cancelled. Poll
// failures are logged and retried on the next tick, never fatal.
func (w *Watcher) Run(ctx context.Context, interval time.Duration) {
	slog.Info("watcher_started", "interval", interval, "trade_limit", w.tradeLimit)

	if err := w.RunOnce(ctx); err != nil {
		slog.Warn("initial_poll_failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("watcher_stopped")
			return
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				slog.Warn("poll_failed", "error", err)
			}
		}
	}
}

// RunOnce performs one poll cycle.
func (w *Watcher) RunOnce(ctx context.Context) error {
	trades, err := w.source.RecentTrades(ctx, w.tradeLimit)
	if err != nil {
		w.stats.recordError(err)
		return fmt.Errorf("fetch failed: %w", err)
	}

	// The API returns newest first; process oldest first so wallet stats
	// and price windows accumulate in event order.
	flagged := 0
	reasons := make(map[string]int)

	for i := len(trades) - 1; i >= 0; i-- {
		ok, reason := w.processTrade(ctx, trades[i])
		if ok {
			flagged++
		} else if reason != "" {
			reasons[reason]++
		}
	}

	w.stats.recordCycle(len(trades), flagged, len(w.wallets), len(w.prices), reasons)

	slog.Info("poll_cycle_complete",
		"processed", len(trades),
		"flagged", flagged,
		"filtered", len(trades)-flagged,
		"wallets_tracked", len(w.wallets),
	)

	return nil
}

// processTrade updates tracking state, evaluates one trade, and persists it
// when suspicious. Returns whether the trade was flagged and, if not, the
// filter reason.
func (w *Watcher) processTrade(ctx context.Context, trade ingest.MarketTrade) (bool, string) {
	ws := w.wallets[trade.ProxyWallet]
	if ws == nil {
		ws = &walletStats{firstSeen: trade.Timestamp}
		w.wallets[trade.ProxyWallet] = ws
	}
	ws.tradeCount++

	if trade.Price > 0 {
		window := append(w.prices[trade.ConditionID], trade.Price)
		if len(window) > priceWindowSize {
			window = window[len(window)-priceWindowSize:]
		}
		w.prices[trade.ConditionID] = window
	}

	median, hasMedian := scoring.Median(w.prices[trade.ConditionID], minMedianSamples)

	verdict := scoring.Evaluate(scoring.Input{
		Notional:         trade.Notional(),
		Price:            trade.Price,
		WalletTradeCount: ws.tradeCount,
		MarketMedian:     median,
		HasMedian:        hasMedian,
	}, w.thresholds)

	if !verdict.Suspicious {
		return false, verdict.FilterReason
	}

	record := store.InsiderTrade{
		ID:             uuid.New().String(),
		Wallet:         trade.ProxyWallet,
		MarketID:       trade.ConditionID,
		MarketTitle:    trade.Title,
		MarketSlug:     trade.Slug,
		EventSlug:      trade.EventSlug,
		Outcome:        trade.Outcome,
		Side:           trade.Side,
		Size:           trade.Size,
		Price:          trade.Price,
		NotionalUSD:    trade.Notional(),
		InsiderScore:   verdict.Score,
		TradeTimestamp: trade.Time(),
	}
	if impact, ok := scoring.PriceImpact(trade.Price, median, hasMedian); ok {
		record.PriceImpact = &impact
	}

	if err := w.sink.InsertTrade(ctx, record); err != nil {
		slog.Error("insert_trade_failed", "wallet", trade.ProxyWallet, "error", err)
		return false, ""
	}

	slog.Info("insider_trade_flagged",
		"score", verdict.Score,
		"market", trade.Title,
		"wallet", trade.ProxyWallet,
		"notional_usd", trade.Notional(),
	)
	return true, ""
}

// Stats returns a snapshot of watcher activity. Safe to call from the API
// goroutine while the poll loop runs.
func (w *Watcher) Stats() StatsSnapshot {
	return w.stats.snapshot()
}
