package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Source is the data source capability injected into the Synchronizer.
// Implementations must return a well-formed envelope or an error, never both.
type Source interface {
	FetchFeed(ctx context.Context) (FeedEnvelope, error)
}

// Client fetches the feed from the proxy boundary over HTTP.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a feed client for the given proxy URL.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// FetchFeed performs one parameterless fetch against the proxy. A non-2xx
// status or an unparsable body is an error; the caller decides how to
// degrade. On success Trades is guaranteed non-nil.
func (c *Client) FetchFeed(ctx context.Context) (FeedEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return FeedEnvelope{}, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return FeedEnvelope{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return FeedEnvelope{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var envelope FeedEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return FeedEnvelope{}, fmt.Errorf("decode failed: %w", err)
	}
	envelope.normalized()

	return envelope, nil
}
