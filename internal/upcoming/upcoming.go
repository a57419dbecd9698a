// Package upcoming projects future-airing episodes for tracked series.
package upcoming

//go:generate mockgen -source=upcoming.go -destination=mocks/mock_schedule.go -package=mocks

import (
	"context"
	"html"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/cinetrack/internal/media"
	"github.com/vmunix/cinetrack/pkg/titles"
	"github.com/vmunix/cinetrack/pkg/tvmaze"
)

// ScheduleProvider looks up shows and their episode schedules.
type ScheduleProvider interface {
	SearchShows(ctx context.Context, query string) ([]tvmaze.SearchResult, error)
	ShowEpisodes(ctx context.Context, showID int64) (*tvmaze.ShowWithEpisodes, error)
}

// Episode is one future airing. ShowTitle is the catalog title, not the
// schedule provider's.
type Episode struct {
	RecordID      int64  `json:"recordId"`
	ShowID        int64  `json:"showId"`
	ShowTitle     string `json:"showTitle"`
	AirDate       string `json:"airDate"` // YYYY-MM-DD
	EpisodeName   string `json:"episodeName"`
	EpisodeNumber int    `json:"episodeNumber"` // 0 for unnumbered specials
	SeasonNumber  int    `json:"seasonNumber"`
	Overview      string `json:"episodeOverview"`
}

// Projector computes upcoming episodes.
type Projector struct {
	provider    ScheduleProvider
	log         *slog.Logger
	now         func() time.Time
	concurrency int
}

// Option configures a Projector.
type Option func(*Projector)

// WithClock overrides the time source used for "today".
func WithClock(now func() time.Time) Option {
	return func(p *Projector) {
		if now != nil {
			p.now = now
		}
	}
}

// WithConcurrency bounds how many series are fetched in parallel.
func WithConcurrency(n int) Option {
	return func(p *Projector) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithLogger sets a logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Projector) {
		if log != nil {
			p.log = log.With("component", "upcoming")
		}
	}
}

// New creates a Projector.
func New(provider ScheduleProvider, opts ...Option) *Projector {
	p := &Projector{
		provider:    provider,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tracked reports whether r is a series the projection considers.
func Tracked(r *media.Record) bool {
	return r.IsSeries() && (r.Status == media.StatusWatching || r.Status == media.StatusPlanToWatch)
}

// Project returns episodes of tracked series airing today or later, sorted
// by air date. Series are fetched concurrently; results for equal dates
// keep the order of records. A provider failure empties that series'
// contribution only.
func (p *Projector) Project(ctx context.Context, records []media.Record) []Episode {
	y, m, d := p.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var tracked []*media.Record
	for i := range records {
		if Tracked(&records[i]) {
			tracked = append(tracked, &records[i])
		}
	}

	slots := make([][]Episode, len(tracked))
	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, r := range tracked {
		g.Go(func() error {
			slots[i] = p.forSeries(ctx, r, today)
			return nil
		})
	}
	_ = g.Wait()

	var out []Episode
	for _, s := range slots {
		out = append(out, s...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AirDate < out[j].AirDate
	})
	return out
}

func (p *Projector) forSeries(ctx context.Context, r *media.Record, today time.Time) []Episode {
	start := time.Now()
	matches, err := p.provider.SearchShows(ctx, r.Title)
	if err != nil {
		p.log.Warn("show search failed", "title", r.Title, "duration", time.Since(start), "error", err)
		return nil
	}
	if len(matches) == 0 {
		p.log.Debug("no schedule match", "title", r.Title)
		return nil
	}

	best := matches[0].Show
	if score, conf := titles.Compare(r.Title, best.Name); conf < titles.ConfidenceMedium {
		p.log.Debug("weak schedule match", "title", r.Title, "match", best.Name, "score", score, "confidence", conf)
	}

	show, err := p.provider.ShowEpisodes(ctx, best.ID)
	if err != nil {
		p.log.Warn("episode fetch failed", "title", r.Title, "show_id", best.ID, "error", err)
		return nil
	}
	if show == nil {
		return nil
	}

	var out []Episode
	for _, ep := range show.Episodes() {
		day, ok := ep.AirDay()
		if !ok || day.Before(today) {
			continue
		}
		number := 0
		if ep.Number != nil {
			number = *ep.Number
		}
		overview := ""
		if ep.Summary != nil {
			overview = StripHTML(*ep.Summary)
		}
		out = append(out, Episode{
			RecordID:      r.ID,
			ShowID:        best.ID,
			ShowTitle:     r.Title,
			AirDate:       day.Format(time.DateOnly),
			EpisodeName:   ep.Name,
			EpisodeNumber: number,
			SeasonNumber:  ep.Season,
			Overview:      overview,
		})
	}
	p.log.Debug("projected series", "title", r.Title, "show_id", best.ID, "upcoming", len(out))
	return out
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup from provider summaries ("<p>Walt...</p>").
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(s, "")))
}
