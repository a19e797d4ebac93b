package watcher

import (
	"sync"
	"time"
)

// StatsSnapshot is a point-in-time view of watcher activity, served by the
// backend's /stats endpoint.
type StatsSnapshot struct {
	Uptime          string           `json:"uptime"`
	PollCycles      int64            `json:"poll_cycles"`
	TradesProcessed int64            `json:"trades_processed"`
	TradesFlagged   int64            `json:"trades_flagged"`
	WalletsTracked  int              `json:"wallets_tracked"`
	MarketsTracked  int              `json:"markets_tracked"`
	FilterReasons   map[string]int64 `json:"filter_reasons"`
	LastPoll        time.Time        `json:"last_poll"`
	LastError       string           `json:"last_error,omitempty"`
}

// statsTracker provides thread-safe counters for the watcher.
type statsTracker struct {
	mu              sync.RWMutex
	startTime       time.Time
	pollCycles      int64
	tradesProcessed int64
	tradesFlagged   int64
	walletsTracked  int
	marketsTracked  int
	filterReasons   map[string]int64
	lastPoll        time.Time
	lastError       string
}

func newStatsTracker() *statsTracker {
	return &statsTracker{
		startTime:     time.Now(),
		filterReasons: make(map[string]int64),
	}
}

// recordCycle accumulates one completed poll cycle.
func (s *statsTracker) recordCycle(processed, flagged, wallets, markets int, reasons map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pollCycles++
	s.tradesProcessed += int64(processed)
	s.tradesFlagged += int64(flagged)
	s.walletsTracked = wallets
	s.marketsTracked = markets
	for reason, count := range reasons {
		s.filterReasons[reason] += int64(count)
	}
	s.lastPoll = time.Now()
	s.lastError = ""
}

// recordError notes a failed poll cycle.
func (s *statsTracker) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pollCycles++
	s.lastError = err.Error()
}

// snapshot returns a copy of the current stats.
func (s *statsTracker) snapshot() StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reasons := make(map[string]int64, len(s.filterReasons))
	for k, v := range s.filterReasons {
		reasons[k] = v
	}

	return StatsSnapshot{
		Uptime:          time.Since(s.startTime).Round(time.Second).String(),
		PollCycles:      s.pollCycles,
		TradesProcessed: s.tradesProcessed,
		TradesFlagged:   s.tradesFlagged,
		WalletsTracked:  s.walletsTracked,
		MarketsTracked:  s.marketsTracked,
		FilterReasons:   reasons,
		LastPoll:        s.lastPoll,
		LastError:       s.lastError,
	}
}
