package tvmaze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.tvmaze.com"

// Sentinel errors for TVmaze API responses.
var (
	ErrNotFound    = errors.New("show not found")
	ErrRateLimited = errors.New("rate limited: too many requests")
)

// Client is a TVmaze API client. TVmaze needs no API key.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. It applies to a copy of the
// HTTP client, so a client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log.With("component", "tvmaze")
		}
	}
}

// New creates a new TVmaze client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// SearchShows returns shows matching query, best match first.
func (c *Client) SearchShows(ctx context.Context, query string) ([]SearchResult, error) {
	var results []SearchResult
	if err := c.get(ctx, "/search/shows?q="+url.QueryEscape(query), &results); err != nil {
		return nil, fmt.Errorf("search shows: %w", err)
	}
	return results, nil
}

// ShowEpisodes fetches a show with its full embedded episode list.
func (c *Client) ShowEpisodes(ctx context.Context, showID int64) (*ShowWithEpisodes, error) {
	var show ShowWithEpisodes
	if err := c.get(ctx, fmt.Sprintf("/shows/%d?embed=episodes", showID), &show); err != nil {
		return nil, fmt.Errorf("get show %d: %w", showID, err)
	}
	return &show, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if c.log != nil {
		c.log.Debug("tvmaze request", "endpoint", endpoint)
	}
	return nil
}
