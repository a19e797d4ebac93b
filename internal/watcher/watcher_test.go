package watcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whalewatch/engine/internal/ingest"
	"github.com/whalewatch/engine/internal/scoring"
	"github.com/whalewatch/engine/internal/store"
)

type fakeSource struct {
	trades []ingest.MarketTrade
	err    error
}

func (f *fakeSource) RecentTrades(ctx context.Context, limit int) ([]ingest.MarketTrade, error) {
	return f.trades, f.err
}

type fakeSink struct {
	inserted []store.InsiderTrade
	err      error
}

func (f *fakeSink) InsertTrade(ctx context.Context, t store.InsiderTrade) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, t)
	return nil
}

// warmupTrades seeds a market's price window around a median without
// triggering any flags (tiny notionals).
func warmupTrades(conditionID string, prices ...float64) []ingest.MarketTrade {
	trades := make([]ingest.MarketTrade, 0, len(prices))
	for i, p := range prices {
		trades = append(trades, ingest.MarketTrade{
			ProxyWallet: "0xwarm",
			ConditionID: conditionID,
			Size:        1,
			Price:       p,
			Timestamp:   int64(1740000000 + i),
		})
	}
	return trades
}

func TestWatcher_FlagsSuspiciousTrade(t *testing.T) {
	whale := ingest.MarketTrade{
		ProxyWallet: "0xfresh",
		Side:        "BUY",
		ConditionID: "cond-1",
		Size:        10000,
		Price:       0.70,
		Timestamp:   1740000100,
		Title:       "Will it rain?",
		Slug:        "will-it-rain",
		EventSlug:   "weather",
		Outcome:     "Yes",
	}

	// Source returns newest first; the watcher processes oldest first, so
	// the warmup window exists before the whale trade is evaluated.
	trades := append([]ingest.MarketTrade{whale}, warmupTrades("cond-1", 0.50, 0.50, 0.51, 0.49, 0.50)...)

	source := &fakeSource{trades: trades}
	sink := &fakeSink{}
	w := New(source, sink, scoring.DefaultThresholds, 200)

	require.NoError(t, w.RunOnce(context.Background()))
	require.Len(t, sink.inserted, 1)

	got := sink.inserted[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "0xfresh", got.Wallet)
	assert.Equal(t, "cond-1", got.MarketID)
	assert.Equal(t, "Will it rain?", got.MarketTitle)
	assert.InDelta(t, 7000, got.NotionalUSD, 1e-9)
	assert.GreaterOrEqual(t, got.InsiderScore, scoring.DefaultThresholds.MinScore)
	require.NotNil(t, got.PriceImpact)
	assert.InDelta(t, 40.0, *got.PriceImpact, 0.001) // (0.70-0.50)/0.50 * 100
	assert.Equal(t, int64(1740000100), got.TradeTimestamp.Unix())
}

func TestWatcher_FiltersSmallTrades(t *testing.T) {
	source := &fakeSource{trades: []ingest.MarketTrade{{
		ProxyWallet: "0xsmall",
		ConditionID: "cond-1",
		Size:        10,
		Price:       0.50,
		Timestamp:   1740000000,
	}}}
	sink := &fakeSink{}
	w := New(source, sink, scoring.DefaultThresholds, 200)

	require.NoError(t, w.RunOnce(context.Background()))
	assert.Empty(t, sink.inserted)

	stats := w.Stats()
	assert.Equal(t, int64(1), stats.TradesProcessed)
	assert.Equal(t, int64(0), stats.TradesFlagged)
	assert.Equal(t, int64(1), stats.FilterReasons[scoring.ReasonLowNotional])
}

func TestWatcher_NoMedianMeansNilImpact(t *testing.T) {
	// One large fresh trade with no price history: flagged (score 56 would
	// fail, so boost notional) but impact must stay nil.
	source := &fakeSource{trades: []ingest.MarketTrade{{
		ProxyWallet: "0xfresh",
		ConditionID: "cond-new",
		Size:        20000,
		Price:       0.60,
		Timestamp:   1740000000,
		Title:       "New market",
	}}}
	sink := &fakeSink{}
	w := New(source, sink, scoring.DefaultThresholds, 200)

	require.NoError(t, w.RunOnce(context.Background()))
	require.Len(t, sink.inserted, 1)
	assert.Nil(t, sink.inserted[0].PriceImpact)
}

func TestWatcher_WalletAgingDisqualifies(t *testing.T) {
	// The same wallet trading every cycle eventually exceeds the trade cap.
	trade := ingest.MarketTrade{
		ProxyWallet: "0xbusy",
		ConditionID: "cond-1",
		Size:        20000,
		Price:       0.60,
		Timestamp:   1740000000,
	}

	source := &fakeSource{trades: []ingest.MarketTrade{trade}}
	sink := &fakeSink{}
	w := New(source, sink, scoring.DefaultThresholds, 200)

	ctx := context.Background()
	for i := 0; i < 25; i++ {
		require.NoError(t, w.RunOnce(ctx))
	}

	stats := w.Stats()
	assert.Positive(t, stats.FilterReasons[scoring.ReasonTooManyTrades])
	assert.Less(t, int64(len(sink.inserted)), stats.TradesProcessed)
}

func TestWatcher_FetchFailureIsReturned(t *testing.T) {
	source := &fakeSource{err: errors.New("api down")}
	w := New(source, &fakeSink{}, scoring.DefaultThresholds, 200)

	err := w.RunOnce(context.Background())
	require.Error(t, err)
	assert.Equal(t, "api down", w.Stats().LastError)
}
