// Package ui provides terminal user interface components for the whale feed.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/whalewatch/engine/internal/feed"
)

// FeedView displays the normalized trade feed as a table, one row per trade.
type FeedView struct {
	table      *tview.Table
	thresholds feed.BucketThresholds
}

var feedHeaders = []string{"Time", "Market", "Wallet", "Bet Size", "Side", "Score", "Impact"}

// NewFeedView creates a feed view with the given bucket thresholds.
func NewFeedView(thresholds feed.BucketThresholds) *FeedView {
	table := tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0)

	table.SetTitle(" Insider Feed (Live) ").SetBorder(true)

	v := &FeedView{table: table, thresholds: thresholds}
	v.setHeaders()
	return v
}

// Widget returns the tview primitive.
func (v *FeedView) Widget() tview.Primitive {
	return v.table
}

// SetTrades replaces the rendered rows.
func (v *FeedView) SetTrades(trades []feed.TradeViewModel) {
	v.table.Clear()
	v.setHeaders()

	for i, trade := range trades {
		row := i + 1

		market := trade.MarketTitle
		if len(market) > 40 {
			market = market[:37] + "..."
		}

		wallet := trade.Wallet
		if len(wallet) > 12 {
			wallet = wallet[:6] + "..." + wallet[len(wallet)-4:]
		}

		v.setCell(row, 0, trade.DisplayTimestamp, tcell.ColorWhite)
		v.setCell(row, 1, market, tcell.ColorWhite)
		v.setCell(row, 2, wallet, tcell.ColorGray)
		v.setCell(row, 3, "$"+FormatGrouped(trade.Notional), tcell.ColorWhite)

		side, sideColor := formatSide(trade)
		v.setCell(row, 4, side, sideColor)

		score, scoreColor := v.formatScore(trade.InsiderScore)
		v.setCell(row, 5, score, scoreColor)

		impact, impactColor := formatImpact(trade)
		v.setCell(row, 6, impact, impactColor)
	}

	v.table.SetTitle(fmt.Sprintf(" Insider Feed (Live) (%d) ", len(trades)))
}

func (v *FeedView) setHeaders() {
	for col, header := range feedHeaders {
		cell := tview.NewTableCell(header).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false)
		v.table.SetCell(0, col, cell)
	}
}

func (v *FeedView) setCell(row, col int, text string, color tcell.Color) {
	cell := tview.NewTableCell(text).
		SetAlign(tview.AlignLeft).
		SetTextColor(color)
	v.table.SetCell(row, col, cell)
}

// formatSide renders the side with a directional indicator: up when the
// price impact is non-negative, down otherwise.
func formatSide(trade feed.TradeViewModel) (string, tcell.Color) {
	if trade.PositiveImpact {
		return trade.Side + " ▲", tcell.ColorGreen
	}
	return trade.Side + " ▼", tcell.ColorRed
}

// formatScore renders the insider score colored by bucket. An unknown score
// renders as a placeholder, never as zero.
func (v *FeedView) formatScore(score *float64) (string, tcell.Color) {
	switch v.thresholds.Bucket(score) {
	case feed.BucketHigh:
		return strconv.FormatFloat(*score, 'f', 1, 64), tcell.ColorGreen
	case feed.BucketMedium:
		return strconv.FormatFloat(*score, 'f', 1, 64), tcell.ColorYellow
	case feed.BucketLow:
		return strconv.FormatFloat(*score, 'f', 1, 64), tcell.ColorRed
	default:
		return "N/A", tcell.ColorWhite
	}
}

// formatImpact renders the signed percentage price impact.
func formatImpact(trade feed.TradeViewModel) (string, tcell.Color) {
	text := fmt.Sprintf("%+.2f%%", trade.PriceImpact)
	if trade.PositiveImpact {
		return text, tcell.ColorGreen
	}
	return text, tcell.ColorRed
}

// FormatGrouped formats a number with thousands separators and two decimals
// when fractional, e.g. 1500.5 -> "1,500.50", 50000 -> "50,000".
func FormatGrouped(f float64) string {
	fixed := strconv.FormatFloat(f, 'f', 2, 64)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	dot := strings.IndexByte(fixed, '.')
	digits, frac := fixed[:dot], fixed[dot+1:]

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}

	s := string(out)
	if frac != "00" {
		s += "." + frac
	}
	if neg {
		s = "-" + s
	}
	return s
}
