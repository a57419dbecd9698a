package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.themoviedb.org"
const defaultCacheTTL = 24 * time.Hour
const defaultTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a title doesn't exist in TMDB.
	ErrNotFound = errors.New("tmdb: not found")
	// ErrUnauthorized is returned for a missing or invalid API key.
	ErrUnauthorized = errors.New("tmdb: unauthorized")
	// ErrRateLimited is returned on HTTP 429.
	ErrRateLimited = errors.New("tmdb: rate limited")
)

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	cache      *cache
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

// WithCacheTTL sets the cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = newCache(ttl)
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

// WithLogger sets a logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log.With("provider", "tmdb")
		}
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		cache: newCache(defaultCacheTTL),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
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

// SearchMulti searches movies and series (and people) in one call.
func (c *Client) SearchMulti(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var resp searchResponse
	if err := c.get(ctx, "/3/search/multi", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// FindByExternalID looks up titles by IMDb id ("tt0137523").
func (c *Client) FindByExternalID(ctx context.Context, imdbID string) (*FindResult, error) {
	if f, ok := c.cache.getFind(imdbID); ok {
		c.log.Debug("cache hit for find", "imdb_id", imdbID)
		return f, nil
	}

	params := url.Values{}
	params.Set("external_source", "imdb_id")

	var f FindResult
	if err := c.get(ctx, "/3/find/"+url.PathEscape(imdbID), params, &f); err != nil {
		return nil, err
	}
	c.cache.setFind(imdbID, &f)
	return &f, nil
}

// Details fetches the full detail object, including external ids, for a
// movie or tv id.
func (c *Client) Details(ctx context.Context, mediaType string, id int64) (*Details, error) {
	if mediaType != MediaMovie && mediaType != MediaTV {
		return nil, fmt.Errorf("tmdb: unsupported media type %q", mediaType)
	}
	if d, ok := c.cache.getDetails(mediaType, id); ok {
		c.log.Debug("cache hit for details", "type", mediaType, "id", id)
		return d, nil
	}

	params := url.Values{}
	params.Set("append_to_response", "external_ids")

	var d Details
	if err := c.get(ctx, fmt.Sprintf("/3/%s/%d", mediaType, id), params, &d); err != nil {
		return nil, err
	}
	c.cache.setDetails(mediaType, id, &d)
	return &d, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", "path", path, "duration", time.Since(start), "error", err)
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		c.log.Warn("unexpected status", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	c.log.Debug("request complete", "path", path, "duration", time.Since(start))
	return nil
}
