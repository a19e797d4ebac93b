// Package api exposes the backend trades endpoint the feed proxy consumes.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/whalewatch/engine/internal/store"
	"github.com/whalewatch/engine/internal/watcher"
)

// TradeLister reads flagged trades from storage.
type TradeLister interface {
	RecentTrades(ctx context.Context, limit int) ([]store.InsiderTrade, error)
}

// StatsProvider exposes watcher activity stats.
type StatsProvider interface {
	Stats() watcher.StatsSnapshot
}

// tradesResponse is the {trades, count} contract consumed by the proxy.
type tradesResponse struct {
	Trades []store.InsiderTrade `json:"trades"`
	Count  int                  `json:"count"`
}

// Server serves the backend HTTP API.
type Server struct {
	lister TradeLister
	stats  StatsProvider
}

// NewServer creates a Server. stats may be nil when no watcher runs in this
// process.
func NewServer(lister TradeLister, stats StatsProvider) *Server {
	return &Server{lister: lister, stats: stats}
}

// Routes returns the backend API handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("GET /get_trades", s.handleGetTrades)
	mux.HandleFunc("GET /stats", s.handleStats)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Polymarket Whale Watcher API"})
}

// handleGetTrades serves flagged trades, most recent first. The optional
// limit query parameter caps the result; absent or invalid means all.
func (s *Server) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	trades, err := s.lister.RecentTrades(r.Context(), limit)
	if trades == nil {
		trades = []store.InsiderTrade{}
	}
	if err != nil {
		slog.Error("list_trades_failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load trades",
		})
		return
	}

	writeJSON(w, http.StatusOK, tradesResponse{Trades: trades, Count: len(trades)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no watcher running"})
		return
	}
	writeJSON(w, http.StatusOK, s.stats.Stats())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}
