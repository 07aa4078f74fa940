// Package poetclient is the HTTP client `poetctl` uses to talk to `poet
// serve`, adapted wholesale from the teacher's internal/client: the same
// struct shape (base URL + *http.Client), the same per-call
// http.NewRequestWithContext / Do / status-check / JSON-decode flow, with
// the KV-store's Put/Get/Delete replaced by Submit/Status against the
// /verify API (internal/server).
package poetclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotFound mirrors the teacher's client.ErrNotFound: returned when the
// server reports a run id that does not exist.
var ErrNotFound = fmt.Errorf("run not found")

// Client is a thin HTTP client for one `poet serve` instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a Client against baseURL with the given request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Run is the JSON shape returned by the server for both Submit and Status
// (mirrors server.Run).
type Run struct {
	ID      int                    `json:"id"`
	Verdict bool                   `json:"verdict"`
	Stats   map[string]interface{} `json:"stats"`
	Error   string                 `json:"error,omitempty"`
}

// Submit uploads a property and a trace for verification and returns the
// completed Run (the server runs it synchronously).
func (c *Client) Submit(ctx context.Context, property, traceJSON string, reduce bool) (*Run, error) {
	body, err := json.Marshal(map[string]interface{}{
		"property": property,
		"trace":    traceJSON,
		"reduce":   reduce,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/verify", c.baseURL), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doRun(req)
}

// Status retrieves a previously submitted run by id.
func (c *Client) Status(ctx context.Context, id int) (*Run, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/verify/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.doRun(req)
}

func (c *Client) doRun(req *http.Request) (*Run, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var run Run
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &run, nil
}

// GetRaw performs a raw GET against any server-relative path and returns the
// response body as a string — the teacher's generic escape hatch
// (internal/client/raw.go) for endpoints not worth a typed wrapper, kept
// here for the /verify/:id/frontier lookup.
func (c *Client) GetRaw(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s%s", c.baseURL, path), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	return string(body), err
}
