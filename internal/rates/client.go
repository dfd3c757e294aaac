// Package rates fetches live exchange rates from a remote quote service.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable covers every failure mode of a rate lookup: transport
// errors, non-2xx responses, unparseable bodies, and unknown target codes.
var ErrUnavailable = errors.New("exchange rates unavailable")

const requestTimeout = 10 * time.Second

// Client talks to a quote provider exposing GET {baseURL}/{BASE} with a
// JSON body containing a "rates" mapping. Every call is a fresh round trip:
// no retries, no caching. Callers amortize repeated lookups by fetching one
// base mapping and reading many targets out of it.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type quoteResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Rates fetches the full rate mapping for base.
func (c *Client) Rates(ctx context.Context, base string) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+base, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var quote quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if quote.Rates == nil {
		return nil, fmt.Errorf("%w: response has no rates", ErrUnavailable)
	}
	return quote.Rates, nil
}

// Rate fetches the base mapping and extracts target from it.
func (c *Client) Rate(ctx context.Context, base, target string) (float64, error) {
	mapping, err := c.Rates(ctx, base)
	if err != nil {
		return 0, err
	}
	rate, ok := mapping[target]
	if !ok {
		return 0, fmt.Errorf("%w: currency %s not found", ErrUnavailable, target)
	}
	return rate, nil
}
