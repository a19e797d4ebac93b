package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Proxy is the boundary between feed consumers and the backend trades
// endpoint. It forwards one inbound GET per request, translates every
// upstream failure into a well-formed FeedEnvelope, and never panics past
// its own handler. Responses are never cached: each invocation re-queries
// the backend.
type Proxy struct {
	upstreamURL string
	client      *http.Client
}

// NewProxy creates a Proxy for the given backend trades URL. The timeout
// bounds the whole upstream call so a hung backend cannot hold the boundary
// open; a timeout surfaces as a transport failure.
func NewProxy(upstreamURL string, timeout time.Duration) *Proxy {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Proxy{
		upstreamURL: upstreamURL,
		client:      &http.Client{Timeout: timeout},
	}
}

// ServeHTTP implements the GET /api/trades operation.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeEnvelope(w, http.StatusMethodNotAllowed, FeedEnvelope{
			Error:  "method not allowed",
			Trades: []RawTrade{},
		})
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, p.upstreamURL, nil)
	if err != nil {
		p.writeTransportFailure(w, err)
		return
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := p.client.Do(req)
	if err != nil {
		p.writeTransportFailure(w, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("backend_error_status", "status", resp.StatusCode, "url", p.upstreamURL)
		writeEnvelope(w, resp.StatusCode, FeedEnvelope{
			Error:  fmt.Sprintf("Backend error: %d", resp.StatusCode),
			Trades: []RawTrade{},
		})
		return
	}

	var envelope FeedEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		p.writeTransportFailure(w, err)
		return
	}
	envelope.normalized()

	writeEnvelope(w, resp.StatusCode, envelope)
}

// writeTransportFailure reports an unreachable or unparsable backend.
func (p *Proxy) writeTransportFailure(w http.ResponseWriter, err error) {
	slog.Error("backend_fetch_failed", "url", p.upstreamURL, "error", err)
	writeEnvelope(w, http.StatusInternalServerError, FeedEnvelope{
		Error:   "Failed to fetch trades",
		Details: err.Error(),
		Trades:  []RawTrade{},
	})
}

// writeEnvelope serializes an envelope with the given status.
func writeEnvelope(w http.ResponseWriter, status int, envelope FeedEnvelope) {
	envelope.normalized()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		slog.Error("envelope_encode_failed", "error", err)
	}
}
