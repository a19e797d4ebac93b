// Package ingest provides trade data polling from the Polymarket data API.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DataAPIBaseURL is the Polymarket data API endpoint
	DataAPIBaseURL = "https://data-api.polymarket.com"
	// DefaultTradeLimit is the default page size for recent trades
	DefaultTradeLimit = 200

	// Data API allows 100 req/10s; poll well under that.
	tradesRatePerSec = 2
)

// MarketTrade is one trade as returned by the data API /trades endpoint.
type MarketTrade struct {
	ProxyWallet string  `json:"proxyWallet"`
	Side        string  `json:"side"`
	ConditionID string  `json:"conditionId"`
	Size        float64 `json:"size"`
	Price       float64 `json:"price"`
	Timestamp   int64   `json:"timestamp"` // unix seconds
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	EventSlug   string  `json:"eventSlug"`
	Outcome     string  `json:"outcome"`
}

// Time returns the trade timestamp as time.Time.
func (t MarketTrade) Time() time.Time {
	return time.Unix(t.Timestamp, 0).UTC()
}

// Notional is the USD value of the trade.
func (t MarketTrade) Notional() float64 {
	return t.Size * t.Price
}

// TradesClient fetches recent trades with rate limiting.
type TradesClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewTradesClient creates a TradesClient for the given base URL. An empty
// baseURL uses the production data API.
func NewTradesClient(baseURL string) *TradesClient {
	if baseURL == "" {
		baseURL = DataAPIBaseURL
	}

	return &TradesClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(tradesRatePerSec, 5),
	}
}

// RecentTrades fetches the most recent taker trades, newest first, as the
// API returns them.
func (c *TradesClient) RecentTrades(ctx context.Context, limit int) ([]MarketTrade, error) {
	if limit <= 0 {
		limit = DefaultTradeLimit
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/trades?limit=%d&offset=0&takerOnly=true", c.baseURL, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var trades []MarketTrade
	if err := json.NewDecoder(resp.Body).Decode(&trades); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	return trades, nil
}
