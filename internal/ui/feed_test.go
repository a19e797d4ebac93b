package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whalewatch/engine/internal/feed"
)

func TestFormatGrouped(t *testing.T) {
	assert.Equal(t, "0", FormatGrouped(0))
	assert.Equal(t, "950", FormatGrouped(950))
	assert.Equal(t, "1,500.50", FormatGrouped(1500.5))
	assert.Equal(t, "50,000", FormatGrouped(50000))
	assert.Equal(t, "1,234,567.89", FormatGrouped(1234567.89))
	assert.Equal(t, "-3,000", FormatGrouped(-3000))
}

func TestPrintFeed(t *testing.T) {
	score := 85.0
	trades := []feed.TradeViewModel{
		{
			MarketTitle:      "Will it rain?",
			Wallet:           "0xabc",
			Notional:         1500.5,
			Side:             "BUY",
			PriceImpact:      -2,
			InsiderScore:     &score,
			DisplayTimestamp: "2025-03-01 12:30:00",
			PositiveImpact:   false,
		},
		{
			MarketTitle:      feed.UnknownMarket,
			Wallet:           feed.UnknownWallet,
			DisplayTimestamp: feed.UnknownTime,
			PositiveImpact:   true,
		},
	}

	var buf bytes.Buffer
	PrintFeed(&buf, trades, feed.DefaultBucketThresholds)

	out := buf.String()
	assert.Contains(t, out, "Will it rain?")
	assert.Contains(t, out, "1,500.50")
	assert.Contains(t, out, "85.0")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "-2.00%")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "Unknown Market")
	assert.Contains(t, out, "2 trade(s)")
}

func TestPrintFeed_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintFeed(&buf, nil, feed.DefaultBucketThresholds)
	assert.Contains(t, buf.String(), "no trades")
}
