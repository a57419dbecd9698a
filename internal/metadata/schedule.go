package metadata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vmunix/cinetrack/pkg/tvmaze"
)

const (
	searchTTL   = 24 * time.Hour
	episodesTTL = 6 * time.Hour
)

// Cache key prefixes
const (
	keyPrefixSearch   = "tvmaze:search:"
	keyPrefixEpisodes = "tvmaze:episodes:"
)

// ScheduleClient is the subset of the TVmaze client the service wraps.
type ScheduleClient interface {
	SearchShows(ctx context.Context, query string) ([]tvmaze.SearchResult, error)
	ShowEpisodes(ctx context.Context, showID int64) (*tvmaze.ShowWithEpisodes, error)
}

// ScheduleService provides cached access to the episode schedule provider.
type ScheduleService struct {
	client ScheduleClient
	cache  *Cache
	log    *slog.Logger
}

// NewScheduleService creates a schedule service. A nil cache disables caching.
func NewScheduleService(client ScheduleClient, cache *Cache, log *slog.Logger) *ScheduleService {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ScheduleService{
		client: client,
		cache:  cache,
		log:    log.With("component", "schedule"),
	}
}

// SearchShows searches shows by title (cached).
func (s *ScheduleService) SearchShows(ctx context.Context, query string) ([]tvmaze.SearchResult, error) {
	fetch := func() ([]tvmaze.SearchResult, error) {
		results, err := s.client.SearchShows(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		return results, nil
	}
	if s.cache == nil {
		return fetch()
	}
	key := keyPrefixSearch + strings.ToLower(strings.TrimSpace(query))
	return cached(ctx, s.cache, s.log, key, searchTTL, fetch)
}

// ShowEpisodes fetches a show's episode schedule (cached).
func (s *ScheduleService) ShowEpisodes(ctx context.Context, showID int64) (*tvmaze.ShowWithEpisodes, error) {
	fetch := func() (*tvmaze.ShowWithEpisodes, error) {
		show, err := s.client.ShowEpisodes(ctx, showID)
		if err != nil {
			return nil, fmt.Errorf("get episodes: %w", err)
		}
		return show, nil
	}
	if s.cache == nil {
		return fetch()
	}
	return cached(ctx, s.cache, s.log, fmt.Sprintf("%s%d", keyPrefixEpisodes, showID), episodesTTL, fetch)
}

// InvalidateShow removes the cached schedule for a show.
func (s *ScheduleService) InvalidateShow(ctx context.Context, showID int64) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, fmt.Sprintf("%s%d", keyPrefixEpisodes, showID)); err != nil {
		return fmt.Errorf("invalidate show %d: %w", showID, err)
	}
	s.log.Debug("invalidated show cache", "show_id", showID)
	return nil
}
