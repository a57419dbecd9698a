// Package resolve turns a user query into candidate titles and expands a
// chosen candidate into a full catalog record.
package resolve

//go:generate mockgen -source=resolve.go -destination=mocks/mock_providers.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/cinetrack/internal/media"
	"github.com/vmunix/cinetrack/internal/tmdb"
	"github.com/vmunix/cinetrack/pkg/omdb"
)

// ErrNoData is returned by Expand when the primary provider yields nothing.
var ErrNoData = errors.New("no data from provider")

var imdbIDPattern = regexp.MustCompile(`^tt\d+$`)

// IsIMDBID reports whether q looks like an IMDb id ("tt0137523").
func IsIMDBID(q string) bool {
	return imdbIDPattern.MatchString(q)
}

// PrimaryProvider is the authoritative metadata source (TMDB).
type PrimaryProvider interface {
	SearchMulti(ctx context.Context, query string) ([]tmdb.SearchResult, error)
	FindByExternalID(ctx context.Context, imdbID string) (*tmdb.FindResult, error)
	Details(ctx context.Context, mediaType string, id int64) (*tmdb.Details, error)
}

// SecondaryProvider is the free-text fallback (OMDb).
type SecondaryProvider interface {
	Search(ctx context.Context, query string) ([]omdb.SearchResult, error)
}

// Candidate is a search hit not yet expanded into a record.
type Candidate struct {
	ID          int64      `json:"id"`
	Kind        media.Kind `json:"type"`
	Title       string     `json:"title"`
	PosterPath  string     `json:"poster_path"`
	ReleaseDate string     `json:"release_date"`
	Overview    string     `json:"overview"`
	Rating      float64    `json:"vote_average"`
}

// Year returns the four-digit year prefix of the release date, or "".
func (c Candidate) Year() string {
	year, _, _ := strings.Cut(c.ReleaseDate, "-")
	return year
}

// Resolver runs the search and expand pipeline.
type Resolver struct {
	primary     PrimaryProvider
	secondary   SecondaryProvider
	log         *slog.Logger
	concurrency int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSecondary enables the fallback provider.
func WithSecondary(p SecondaryProvider) Option {
	return func(r *Resolver) {
		r.secondary = p
	}
}

// WithLogger sets a logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log.With("component", "resolve")
		}
	}
}

// WithConcurrency bounds parallel fallback lookups.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// New creates a Resolver over the primary provider.
func New(primary PrimaryProvider, opts ...Option) *Resolver {
	r := &Resolver{
		primary:     primary,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Search resolves query into deduplicated candidates in provider order.
// Provider failures degrade to no results; Search never returns an error.
//
// An IMDb id is looked up directly. Anything else goes to the primary
// multi-search, and only when that comes back empty to the secondary
// provider, whose hits are mapped back to primary ids by IMDb id.
func (r *Resolver) Search(ctx context.Context, query string) []Candidate {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}

	var raw []tmdb.SearchResult
	switch {
	case IsIMDBID(q):
		raw = r.find(ctx, q)
	default:
		raw = r.searchPrimary(ctx, q)
		if len(raw) == 0 && r.secondary != nil {
			raw = r.fallback(ctx, q)
		}
	}

	return dedupe(filter(raw))
}

func (r *Resolver) searchPrimary(ctx context.Context, q string) []tmdb.SearchResult {
	start := time.Now()
	results, err := r.primary.SearchMulti(ctx, q)
	if err != nil {
		r.log.Warn("primary search failed", "query", q, "duration", time.Since(start), "error", err)
		return nil
	}
	r.log.Debug("primary search", "query", q, "results", len(results))
	return results
}

func (r *Resolver) find(ctx context.Context, imdbID string) []tmdb.SearchResult {
	f, err := r.primary.FindByExternalID(ctx, imdbID)
	if err != nil {
		r.log.Warn("external id lookup failed", "imdb_id", imdbID, "error", err)
		return nil
	}
	if f == nil {
		return nil
	}
	return f.All()
}

// fallback maps secondary hits to primary results. Lookups run in parallel
// but results keep secondary-provider order.
func (r *Resolver) fallback(ctx context.Context, q string) []tmdb.SearchResult {
	hits, err := r.secondary.Search(ctx, q)
	if err != nil {
		r.log.Warn("fallback search failed", "query", q, "error", err)
		return nil
	}
	r.log.Debug("fallback search", "query", q, "results", len(hits))

	slots := make([][]tmdb.SearchResult, len(hits))
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, hit := range hits {
		if hit.IMDBID == "" {
			continue
		}
		g.Go(func() error {
			slots[i] = r.find(ctx, hit.IMDBID)
			return nil
		})
	}
	_ = g.Wait()

	var out []tmdb.SearchResult
	for _, s := range slots {
		out = append(out, s...)
	}
	return out
}

// filter keeps movies and series that have a poster.
func filter(results []tmdb.SearchResult) []Candidate {
	out := make([]Candidate, 0, len(results))
	for _, res := range results {
		kind, ok := kindOf(res.MediaType)
		if !ok || res.PosterPath == "" {
			continue
		}
		out = append(out, Candidate{
			ID:          res.ID,
			Kind:        kind,
			Title:       res.DisplayTitle(),
			PosterPath:  res.PosterPath,
			ReleaseDate: res.Date(),
			Overview:    res.Overview,
			Rating:      res.VoteAverage,
		})
	}
	return out
}

// dedupe collapses candidates sharing an id. The survivor sits where the
// id was first seen and carries the last-seen values.
func dedupe(cands []Candidate) []Candidate {
	index := make(map[int64]int, len(cands))
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if i, ok := index[c.ID]; ok {
			out[i] = c
			continue
		}
		index[c.ID] = len(out)
		out = append(out, c)
	}
	return out
}

func kindOf(mediaType string) (media.Kind, bool) {
	switch mediaType {
	case tmdb.MediaMovie:
		return media.KindMovie, true
	case tmdb.MediaTV:
		return media.KindSeries, true
	}
	return "", false
}

func mediaTypeOf(k media.Kind) string {
	if k == media.KindSeries {
		return tmdb.MediaTV
	}
	return tmdb.MediaMovie
}

// Expand fetches full details for c and builds a catalog record with status
// PlanToWatch. Series get one zeroed SeasonProgress per listed season.
func (r *Resolver) Expand(ctx context.Context, c Candidate) (*media.Record, error) {
	start := time.Now()
	d, err := r.primary.Details(ctx, mediaTypeOf(c.Kind), c.ID)
	if err != nil {
		r.log.Warn("details lookup failed", "id", c.ID, "type", c.Kind, "duration", time.Since(start), "error", err)
		return nil, fmt.Errorf("%w: %s %d: %v", ErrNoData, c.Kind, c.ID, err)
	}
	if d == nil {
		return nil, fmt.Errorf("%w: %s %d", ErrNoData, c.Kind, c.ID)
	}

	title := d.DisplayTitle()
	if title == "" {
		title = c.Title
	}

	var rec *media.Record
	if c.Kind == media.KindSeries {
		rec = media.NewSeries(c.ID, title)
		rec.Series.EpisodeRuntime = d.EpisodeRunTime
		rec.Series.SeasonCount = d.NumberOfSeasons
		rec.Series.ProductionStatus = d.Status
		for _, s := range d.Seasons {
			sp := media.NewSeasonProgress(s.EpisodeCount)
			if s.VoteAverage > 0 {
				sp.AverageRating = media.Ptr(s.VoteAverage)
			}
			rec.Series.Seasons[strconv.Itoa(s.SeasonNumber)] = sp
		}
	} else {
		rec = media.NewMovie(c.ID, title, d.Runtime)
	}

	rec.Year = d.Year()
	rec.PosterPath = d.PosterPath
	if rec.PosterPath == nil && c.PosterPath != "" {
		rec.PosterPath = media.Ptr(c.PosterPath)
	}
	rec.Overview = d.Overview
	rec.Rating = d.VoteAverage
	for _, g := range d.Genres {
		rec.AddGenre(g.Name)
	}
	if id := d.ExternalIDs.IMDBID; id != nil && *id != "" {
		rec.IMDBID = id
	}
	rec.TVDBID = d.ExternalIDs.TVDBID

	r.log.Debug("expanded candidate", "id", c.ID, "title", title, "type", c.Kind, "seasons", len(rec.Seasons()))
	return rec, nil
}
