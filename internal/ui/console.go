package ui

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/whalewatch/engine/internal/feed"
)

// PrintFeed writes a one-shot snapshot of the feed as a console table.
// Used when the TUI is disabled.
func PrintFeed(w io.Writer, trades []feed.TradeViewModel, thresholds feed.BucketThresholds) {
	if len(trades) == 0 {
		fmt.Fprintln(w, "no trades in feed")
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("Time", "Market", "Wallet", "Bet Size", "Side", "Score", "Bucket", "Impact")

	for _, trade := range trades {
		score := "N/A"
		if trade.InsiderScore != nil {
			score = fmt.Sprintf("%.1f", *trade.InsiderScore)
		}

		arrow := "▼"
		if trade.PositiveImpact {
			arrow = "▲"
		}

		table.Append(
			trade.DisplayTimestamp,
			trade.MarketTitle,
			trade.Wallet,
			"$"+FormatGrouped(trade.Notional),
			trade.Side+" "+arrow,
			score,
			string(thresholds.Bucket(trade.InsiderScore)),
			fmt.Sprintf("%+.2f%%", trade.PriceImpact),
		)
	}

	table.Render()
	fmt.Fprintf(w, "%d trade(s)\n", len(trades))
}
