// Package feed implements the trade feed pipeline: the proxy boundary in
// front of the backend, the polling synchronizer, and the normalizer that
// turns untrusted trade records into render-ready view models.
package feed

// RawTrade is a trade record as received from the backend. Field presence
// and types are unreliable: any field may be absent, null, or carry the
// wrong type, so everything decodes into any and is coerced downstream.
type RawTrade struct {
	ID             any `json:"id,omitempty"`
	MarketTitle    any `json:"market_title,omitempty"`
	Wallet         any `json:"wallet,omitempty"`
	NotionalUSD    any `json:"notional_usd,omitempty"`
	Side           any `json:"side,omitempty"`
	PriceImpact    any `json:"price_impact,omitempty"`
	InsiderScore   any `json:"insider_score,omitempty"`
	TradeTimestamp any `json:"trade_timestamp,omitempty"`
}

// FeedEnvelope is the proxy-to-client contract. Trades is always a non-nil
// slice, even on failure, so consumers never need a nil check before
// iterating. Error, when set, signals an upstream or transport failure;
// Count is informational only.
type FeedEnvelope struct {
	Trades  []RawTrade `json:"trades"`
	Count   int        `json:"count"`
	Error   string     `json:"error,omitempty"`
	Details string     `json:"details,omitempty"`
}

// normalized guarantees the always-array invariant after decoding.
func (e *FeedEnvelope) normalized() {
	if e.Trades == nil {
		e.Trades = []RawTrade{}
	}
}
