package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradesClient_RecentTrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trades", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "true", r.URL.Query().Get("takerOnly"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"proxyWallet":"0xabc","side":"BUY","conditionId":"cond-1","size":5000,
			 "price":0.62,"timestamp":1740000000,"title":"Will it rain?",
			 "slug":"will-it-rain","eventSlug":"weather","outcome":"Yes"},
			{"proxyWallet":"0xdef","side":"SELL","conditionId":"cond-2","size":10,
			 "price":0.5,"timestamp":1740000060,"title":"Other","slug":"other",
			 "eventSlug":"misc","outcome":"No"}
		]`))
	}))
	defer srv.Close()

	trades, err := NewTradesClient(srv.URL).RecentTrades(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, trades, 2)

	assert.Equal(t, "0xabc", trades[0].ProxyWallet)
	assert.Equal(t, "cond-1", trades[0].ConditionID)
	assert.InDelta(t, 3100, trades[0].Notional(), 1e-9)
	assert.Equal(t, int64(1740000000), trades[0].Time().Unix())
}

func TestTradesClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewTradesClient(srv.URL).RecentTrades(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestTradesClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	_, err := NewTradesClient(srv.URL).RecentTrades(context.Background(), 10)
	require.Error(t, err)
}
