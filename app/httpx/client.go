// Package httpx wraps outbound calls to one external API with request
// pacing, a conservative per-request timeout, and a uniform error taxonomy.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultTimeout = 30 * time.Second

// Client paces consecutive calls to a single external API. Harvester runs
// are sequential batch jobs, so the client is not safe for concurrent use;
// parallel callers would defeat the pacing contract anyway.
type Client struct {
	httpClient *http.Client
	userAgent  string
	interval   time.Duration
	lastCall   time.Time
}

// NewClient builds a paced client. The interval is the minimum delay
// between consecutive calls; it is never applied before the first one.
func NewClient(userAgent string, interval, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		interval:   interval,
	}
}

// Do paces, sends the request, and maps non-success statuses into the
// error taxonomy. The response body is returned for success statuses.
func (c *Client) Do(ctx context.Context, req *http.Request) ([]byte, error) {
	if err := c.pace(ctx); err != nil {
		return nil, err
	}

	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to perform request to %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Endpoint: req.URL.Path}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransientHTTPError{
			Endpoint:   req.URL.Path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// DoJSON performs the request and decodes a JSON response into out.
func (c *Client) DoJSON(ctx context.Context, req *http.Request, out interface{}) error {
	data, err := c.Do(ctx, req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}

	return nil
}

// pace blocks until the configured interval has elapsed since the previous
// call. The very first call goes through immediately.
func (c *Client) pace(ctx context.Context) error {
	defer func() { c.lastCall = time.Now() }()

	if c.interval <= 0 || c.lastCall.IsZero() {
		return nil
	}

	wait := c.interval - time.Since(c.lastCall)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
