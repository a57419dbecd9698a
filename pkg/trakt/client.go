// Package trakt provides a minimal Trakt.tv API client for discovery lists.
package trakt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.trakt.tv"

// Sentinel errors for Trakt API responses.
var (
	ErrUnauthorized = errors.New("unauthorized: invalid client id")
	ErrRateLimited  = errors.New("rate limited: too many requests")
)

// Kind selects movies or shows.
type Kind string

const (
	Movies Kind = "movies"
	Shows  Kind = "shows"
)

// List selects the discovery list.
type List string

const (
	Trending List = "trending"
	Popular  List = "popular"
)

// IDs are the cross-reference ids Trakt returns for a title.
type IDs struct {
	Trakt int64   `json:"trakt"`
	Slug  string  `json:"slug"`
	IMDB  *string `json:"imdb"`
	TMDB  *int64  `json:"tmdb"`
	TVDB  *int64  `json:"tvdb,omitempty"`
}

// Title is a movie or show entry.
type Title struct {
	Title string `json:"title"`
	Year  *int   `json:"year"`
	IDs   IDs    `json:"ids"`
}

// Item is one discovery entry. Watchers is only set for trending lists.
type Item struct {
	Title
	Watchers int `json:"watchers,omitempty"`
}

// trendingEntry wraps the title under "movie" or "show".
type trendingEntry struct {
	Watchers int    `json:"watchers"`
	Movie    *Title `json:"movie"`
	Show     *Title `json:"show"`
}

// Client is a Trakt API client authenticated by client id.
type Client struct {
	clientID   string
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
			c.log = log.With("component", "trakt")
		}
	}
}

// New creates a new Trakt client.
func New(clientID string, opts ...Option) *Client {
	c := &Client{
		clientID: clientID,
		baseURL:  defaultBaseURL,
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

// Fetch returns up to limit entries of the given list. limit <= 0 uses the
// API default page size.
func (c *Client) Fetch(ctx context.Context, kind Kind, list List, limit int) ([]Item, error) {
	if kind != Movies && kind != Shows {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	endpoint := fmt.Sprintf("/%s/%s", kind, list)
	if limit > 0 {
		endpoint += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	switch list {
	case Trending:
		var entries []trendingEntry
		if err := c.get(ctx, endpoint, &entries); err != nil {
			return nil, err
		}
		items := make([]Item, 0, len(entries))
		for _, e := range entries {
			t := e.Movie
			if t == nil {
				t = e.Show
			}
			if t == nil {
				continue
			}
			items = append(items, Item{Title: *t, Watchers: e.Watchers})
		}
		return items, nil
	case Popular:
		var titles []Title
		if err := c.get(ctx, endpoint, &titles); err != nil {
			return nil, err
		}
		items := make([]Item, len(titles))
		for i, t := range titles {
			items[i] = Item{Title: t}
		}
		return items, nil
	}
	return nil, fmt.Errorf("unknown list %q", list)
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("trakt-api-version", "2")
	req.Header.Set("trakt-api-key", c.clientID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("trakt API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if c.log != nil {
		c.log.Debug("trakt request", "endpoint", endpoint)
	}
	return nil
}
