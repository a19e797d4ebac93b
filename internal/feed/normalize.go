package feed

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Placeholder text for absent fields.
const (
	UnknownMarket = "Unknown Market"
	UnknownWallet = "N/A"
	UnknownTime   = "Unknown time"
)

// displayTimeLayout matches the engine's log timestamp format.
const displayTimeLayout = "2006-01-02 15:04:05"

// TradeViewModel is the render-ready form of a trade. Every field is safe to
// display as-is: numbers are finite, strings are non-empty or deliberate
// placeholders. InsiderScore is the one nullable field, nil meaning the
// score is unknown rather than zero.
type TradeViewModel struct {
	MarketTitle      string
	Wallet           string
	Notional         float64
	Side             string
	PriceImpact      float64
	InsiderScore     *float64
	DisplayTimestamp string
	PositiveImpact   bool
}

// Normalize converts a raw trade into a view model. It is pure and total:
// any input, however malformed, yields a valid view model. Malformed numeric
// fields canonicalize to 0, absent strings to placeholders.
func Normalize(raw RawTrade) TradeViewModel {
	notional := toFiniteNumber(raw.NotionalUSD, 0)
	impact := toFiniteNumber(raw.PriceImpact, 0)

	return TradeViewModel{
		MarketTitle:      stringOr(raw.MarketTitle, UnknownMarket),
		Wallet:           stringOr(raw.Wallet, UnknownWallet),
		Notional:         notional,
		Side:             strings.ToUpper(stringOr(raw.Side, "")),
		PriceImpact:      impact,
		InsiderScore:     toScore(raw.InsiderScore),
		DisplayTimestamp: displayTimestamp(raw.TradeTimestamp),
		PositiveImpact:   impact >= 0,
	}
}

// NormalizeAll normalizes every trade in an envelope, preserving order.
func NormalizeAll(trades []RawTrade) []TradeViewModel {
	models := make([]TradeViewModel, 0, len(trades))
	for _, raw := range trades {
		models = append(models, Normalize(raw))
	}
	return models
}

// toFiniteNumber coerces an arbitrary JSON value to a finite float64. Every
// numeric coercion in the pipeline goes through here so the totality
// guarantee is auditable in one place. Non-coercible values, NaN and ±Inf
// all map to the fallback.
func toFiniteNumber(v any, fallback float64) float64 {
	var f float64

	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return fallback
		}
		f = parsed
	default:
		return fallback
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

// toScore coerces an insider score, preserving nil as "unknown". A present
// but unparsable score is also unknown, never zero.
func toScore(v any) *float64 {
	if v == nil {
		return nil
	}

	nan := math.NaN()
	f := toFiniteNumber(v, nan)
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

// stringOr returns the value if it is a non-empty string, otherwise fallback.
func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

// displayTimestamp formats a trade timestamp for display, falling back to a
// placeholder when the value is absent or unparsable.
func displayTimestamp(v any) string {
	t, ok := parseTradeTime(v)
	if !ok {
		return UnknownTime
	}
	return t.Local().Format(displayTimeLayout)
}

// parseTradeTime tries the timestamp shapes the backend has been seen to
// emit: unix seconds or milliseconds (numeric or string) and common layouts.
func parseTradeTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case float64:
		return unixTime(int64(val)), true
	case int64:
		return unixTime(val), true
	case string:
		if val == "" {
			return time.Time{}, false
		}

		if ts, err := strconv.ParseInt(val, 10, 64); err == nil {
			return unixTime(ts), true
		}

		layouts := []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
		}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, val); err == nil {
				return t, true
			}
		}
	}

	return time.Time{}, false
}

// unixTime interprets a unix timestamp as milliseconds when it is too large
// to plausibly be seconds.
func unixTime(ts int64) time.Time {
	if ts > 1e12 {
		return time.UnixMilli(ts)
	}
	return time.Unix(ts, 0)
}
