package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whalewatch/engine/internal/store"
)

type fakeLister struct {
	trades    []store.InsiderTrade
	err       error
	lastLimit int
}

func (f *fakeLister) RecentTrades(ctx context.Context, limit int) ([]store.InsiderTrade, error) {
	f.lastLimit = limit
	return f.trades, f.err
}

func TestServer_GetTrades(t *testing.T) {
	impact := -4.2
	lister := &fakeLister{trades: []store.InsiderTrade{{
		ID:             "t-1",
		Wallet:         "0xabc",
		MarketID:       "cond-1",
		MarketTitle:    "Will it rain?",
		Side:           "BUY",
		NotionalUSD:    3100,
		PriceImpact:    &impact,
		InsiderScore:   71.5,
		TradeTimestamp: time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
	}}}

	srv := httptest.NewServer(NewServer(lister, nil).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/get_trades")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Trades []map[string]any `json:"trades"`
		Count  int              `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Trades, 1)
	assert.Equal(t, "Will it rain?", body.Trades[0]["market_title"])
	assert.Equal(t, 3100.0, body.Trades[0]["notional_usd"])
	assert.Equal(t, 71.5, body.Trades[0]["insider_score"])
}

func TestServer_GetTradesLimit(t *testing.T) {
	lister := &fakeLister{}
	srv := httptest.NewServer(NewServer(lister, nil).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/get_trades?limit=25")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 25, lister.lastLimit)

	// Invalid limit falls back to all.
	resp, err = http.Get(srv.URL + "/get_trades?limit=bogus")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 0, lister.lastLimit)
}

func TestServer_GetTradesEmptyIsArray(t *testing.T) {
	srv := httptest.NewServer(NewServer(&fakeLister{trades: []store.InsiderTrade{}}, nil).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/get_trades")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf [256]byte
	n, _ := resp.Body.Read(buf[:])
	assert.Contains(t, string(buf[:n]), `"trades":[]`)
}

func TestServer_GetTradesStoreError(t *testing.T) {
	srv := httptest.NewServer(NewServer(&fakeLister{err: errors.New("db locked")}, nil).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/get_trades")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestServer_Index(t *testing.T) {
	srv := httptest.NewServer(NewServer(&fakeLister{}, nil).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
