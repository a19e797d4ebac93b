// Package scoring implements the insider-likelihood heuristics applied to
// incoming trades before they reach the feed.
package scoring

import (
	"math"
	"sort"
)

// Filter reasons reported when a trade does not qualify for the feed.
const (
	ReasonLowNotional       = "low_notional"
	ReasonTooManyTrades     = "too_many_trades"
	ReasonLowPriceDeviation = "low_price_deviation"
	ReasonLowScore          = "low_score"
)

// Thresholds holds the tunable scoring rules.
type Thresholds struct {
	// MinNotionalUSD is the floor below which a trade is never flagged
	MinNotionalUSD float64

	// NewWalletMaxTrades is the trade count at or under which a wallet
	// counts as fresh
	NewWalletMaxTrades int

	// MaxWalletTrades disqualifies well-established wallets outright
	MaxWalletTrades int

	// MinPriceDeviation is the minimum fractional deviation from the
	// market median for a trade to be interesting
	MinPriceDeviation float64

	// MinScore is the score floor for flagging
	MinScore float64
}

// DefaultThresholds mirrors the watcher's original tuning.
var DefaultThresholds = Thresholds{
	MinNotionalUSD:     3000,
	NewWalletMaxTrades: 3,
	MaxWalletTrades:    20,
	MinPriceDeviation:  0.07,
	MinScore:           60,
}

// Input is everything the scorer needs to know about one trade.
type Input struct {
	Notional         float64
	Price            float64
	WalletTradeCount int

	// MarketMedian is the rolling median price for the market.
	// HasMedian is false when too few samples exist.
	MarketMedian float64
	HasMedian    bool
}

// Verdict is the outcome of evaluating one trade.
type Verdict struct {
	Suspicious   bool
	Score        float64
	FilterReason string
}

// Score computes the 0-100 insider-likelihood score as a weighted blend of
// trade size, wallet newness and price deviation. Rounded to one decimal.
func Score(in Input, th Thresholds) float64 {
	sizeScore := math.Min(in.Notional/th.MinNotionalUSD, 3.0)
	sizeScoreNorm := math.Min(sizeScore/3.0, 1.0)

	var newnessScore float64
	switch {
	case in.WalletTradeCount <= th.NewWalletMaxTrades:
		newnessScore = 1.0
	case in.WalletTradeCount <= 10:
		newnessScore = 0.5
	default:
		newnessScore = 0.1
	}

	priceDevScore := 0.3
	if in.HasMedian && in.MarketMedian > 0 {
		deviationPct := math.Abs(in.Price-in.MarketMedian) / in.MarketMedian
		priceDevScore = math.Min(deviationPct/0.20, 1.0)
	}

	score := 0.45*sizeScoreNorm + 0.35*newnessScore + 0.20*priceDevScore
	return math.Round(score*1000) / 10
}

// Evaluate decides whether a trade belongs in the insider feed. Cheap
// filters run before the score so most traffic is rejected without the
// full computation.
func Evaluate(in Input, th Thresholds) Verdict {
	if in.Notional < th.MinNotionalUSD {
		return Verdict{FilterReason: ReasonLowNotional}
	}

	if in.WalletTradeCount > th.MaxWalletTrades {
		return Verdict{FilterReason: ReasonTooManyTrades}
	}

	if in.HasMedian && in.MarketMedian > 0 {
		pct := math.Abs(in.Price-in.MarketMedian) / in.MarketMedian
		if pct < th.MinPriceDeviation {
			return Verdict{FilterReason: ReasonLowPriceDeviation}
		}
	}

	score := Score(in, th)
	if score < th.MinScore {
		return Verdict{Score: score, FilterReason: ReasonLowScore}
	}

	return Verdict{Suspicious: true, Score: score}
}

// PriceImpact is the signed percentage deviation of a trade price from the
// market median. The second return is false when no median exists.
func PriceImpact(price, median float64, hasMedian bool) (float64, bool) {
	if !hasMedian || median <= 0 {
		return 0, false
	}
	return (price - median) / median * 100.0, true
}

// Median returns the median of prices. ok is false with fewer than
// minSamples values.
func Median(prices []float64, minSamples int) (float64, bool) {
	if len(prices) < minSamples {
		return 0, false
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}
