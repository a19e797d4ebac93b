// Package store provides data models and database operations.
package store

import "time"

// InsiderTrade is a suspicious trade the watcher flagged and persisted.
// The JSON shape is the backend API contract consumed by the feed proxy.
type InsiderTrade struct {
	// ID is a unique identifier for this record
	ID string `json:"id"`

	// Wallet is the proxy wallet that placed the trade
	Wallet string `json:"wallet"`

	// MarketID is the market condition ID
	MarketID string `json:"market_id"`

	// MarketTitle is the human-readable market question
	MarketTitle string `json:"market_title"`

	MarketSlug string `json:"market_slug"`
	EventSlug  string `json:"event_slug"`

	// Outcome is the outcome name the trade was placed on
	Outcome string `json:"outcome"`

	// Side is BUY or SELL
	Side string `json:"side"`

	Size  float64 `json:"size"`
	Price float64 `json:"price"`

	// NotionalUSD is size * price
	NotionalUSD float64 `json:"notional_usd"`

	// PriceImpact is the deviation from the market median in percent.
	// Nil when no median was available at scoring time.
	PriceImpact *float64 `json:"price_impact"`

	// InsiderScore is the 0-100 insider-likelihood score
	InsiderScore float64 `json:"insider_score"`

	// TradeTimestamp is when the trade occurred
	TradeTimestamp time.Time `json:"trade_timestamp"`
}
