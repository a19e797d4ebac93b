package feed

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Status is a point-in-time view of the synchronizer for status displays.
type Status struct {
	TradeCount int
	LastSync   time.Time
	LastError  string
}

// Synchronizer owns the current trade list. Each refresh cycle fetches one
// envelope from the source, normalizes it, and replaces the list wholesale.
// Failures reset the list to empty rather than leaving it stale-and-partial.
//
// Concurrency rules, which also bind the periodic Run loop:
//   - at most one fetch cycle in flight; an overlapping refresh is skipped,
//     not queued
//   - results apply in issuance order, so a slow old response can never
//     overwrite a newer one
//   - nothing applies after Close
type Synchronizer struct {
	source   Source
	onUpdate func([]TradeViewModel)

	inFlight atomic.Bool

	mu      sync.Mutex
	trades  []TradeViewModel
	issued  uint64
	applied uint64
	closed  bool
	status  Status
}

// NewSynchronizer creates a Synchronizer. onUpdate, if non-nil, is invoked
// with the new list after every applied cycle (success or failure).
func NewSynchronizer(source Source, onUpdate func([]TradeViewModel)) *Synchronizer {
	return &Synchronizer{
		source:   source,
		onUpdate: onUpdate,
		trades:   []TradeViewModel{},
	}
}

// SetOnUpdate installs or replaces the update callback. Call before the
// first Refresh; it is not safe to change mid-cycle expectations otherwise.
func (s *Synchronizer) SetOnUpdate(fn func([]TradeViewModel)) {
	s.mu.Lock()
	s.onUpdate = fn
	s.mu.Unlock()
}

// Refresh performs one fetch cycle. It is safe to call from any goroutine;
// a call that would overlap an outstanding cycle returns immediately.
func (s *Synchronizer) Refresh(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		slog.Debug("refresh_skipped", "reason", "cycle in flight")
		return
	}
	defer s.inFlight.Store(false)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.issued++
	gen := s.issued
	s.mu.Unlock()

	envelope, err := s.source.FetchFeed(ctx)
	if err != nil {
		slog.Warn("feed_fetch_failed", "error", err)
		s.apply(gen, []TradeViewModel{}, err.Error())
		return
	}

	// A reported upstream error does not block the update: trades that
	// arrived alongside it still render.
	if envelope.Error != "" {
		slog.Warn("feed_reported_error", "error", envelope.Error, "details", envelope.Details)
	}

	s.apply(gen, NormalizeAll(envelope.Trades), envelope.Error)
}

// Run performs an initial refresh and then polls at the given interval
// until the context is cancelled.
func (s *Synchronizer) Run(ctx context.Context, interval time.Duration) {
	slog.Info("feed_synchronizer_started", "interval", interval)

	s.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("feed_synchronizer_stopped")
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Snapshot returns a copy of the current trade list.
func (s *Synchronizer) Snapshot() []TradeViewModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]TradeViewModel, len(s.trades))
	copy(out, s.trades)
	return out
}

// Status returns the current sync status.
func (s *Synchronizer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Close tears the synchronizer down. Any cycle still in flight is discarded
// on arrival; the trade list no longer mutates.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// apply installs the result of cycle gen unless the synchronizer is closed
// or a newer cycle already applied.
func (s *Synchronizer) apply(gen uint64, trades []TradeViewModel, errText string) {
	s.mu.Lock()
	if s.closed || gen <= s.applied {
		s.mu.Unlock()
		return
	}
	s.applied = gen
	s.trades = trades
	s.status = Status{
		TradeCount: len(trades),
		LastSync:   time.Now(),
		LastError:  errText,
	}
	cb := s.onUpdate
	s.mu.Unlock()

	if cb != nil {
		cb(trades)
	}
}
