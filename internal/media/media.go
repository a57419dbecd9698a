// Package media defines the catalog data model (records, watch status, season progress).
package media

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind distinguishes movies from series.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindMovie || k == KindSeries
}

// WatchStatus tracks where the user is with a title.
type WatchStatus string

const (
	StatusWatching    WatchStatus = "Watching"
	StatusCompleted   WatchStatus = "Completed"
	StatusPlanToWatch WatchStatus = "Plan to Watch"
	StatusDropped     WatchStatus = "Dropped"
)

// Statuses lists every watch status in display order.
var Statuses = []WatchStatus{StatusWatching, StatusCompleted, StatusPlanToWatch, StatusDropped}

// Valid reports whether s is one of the four known statuses.
func (s WatchStatus) Valid() bool {
	switch s {
	case StatusWatching, StatusCompleted, StatusPlanToWatch, StatusDropped:
		return true
	}
	return false
}

// Active reports whether the status counts towards watch time.
func (s WatchStatus) Active() bool {
	return s == StatusWatching || s == StatusCompleted
}

// ParseWatchStatus accepts the display form or a loose CLI spelling
// ("plan", "plan-to-watch", "completed", ...).
func ParseWatchStatus(s string) (WatchStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "", " ", "").Replace(norm)
	switch norm {
	case "watching":
		return StatusWatching, nil
	case "completed", "done":
		return StatusCompleted, nil
	case "plantowatch", "plan", "planned":
		return StatusPlanToWatch, nil
	case "dropped":
		return StatusDropped, nil
	}
	return "", fmt.Errorf("unknown watch status %q", s)
}

// Record is a tracked title. Kind selects which payload is meaningful:
// Movie for movies, Series for series. The other payload stays nil.
type Record struct {
	ID         int64       `json:"id"`
	Title      string      `json:"title"`
	Year       string      `json:"year"`
	Kind       Kind        `json:"type"`
	PosterPath *string     `json:"poster_path,omitempty"`
	Overview   string      `json:"overview"`
	Rating     float64     `json:"vote_average"`
	Genres     []string    `json:"genres"`
	IMDBID     *string     `json:"imdb_id,omitempty"`
	TVDBID     *int64      `json:"tvdb_id,omitempty"`
	Status     WatchStatus `json:"status"`

	Movie  *MovieDetails  `json:"movie,omitempty"`
	Series *SeriesDetails `json:"series,omitempty"`
}

// MovieDetails holds the movie-only fields.
type MovieDetails struct {
	Runtime *int `json:"runtime,omitempty"` // minutes
}

// SeriesDetails holds the series-only fields.
type SeriesDetails struct {
	EpisodeRuntime   []int                      `json:"episode_run_time,omitempty"` // minutes
	SeasonCount      *int                       `json:"number_of_seasons,omitempty"`
	ProductionStatus *string                    `json:"production_status,omitempty"`
	Seasons          map[string]*SeasonProgress `json:"seasons"`
}

// NewMovie creates a movie record with status PlanToWatch.
func NewMovie(id int64, title string, runtime *int) *Record {
	return &Record{
		ID:     id,
		Title:  title,
		Kind:   KindMovie,
		Status: StatusPlanToWatch,
		Movie:  &MovieDetails{Runtime: runtime},
	}
}

// NewSeries creates a series record with status PlanToWatch and an empty seasons map.
func NewSeries(id int64, title string) *Record {
	return &Record{
		ID:     id,
		Title:  title,
		Kind:   KindSeries,
		Status: StatusPlanToWatch,
		Series: &SeriesDetails{Seasons: make(map[string]*SeasonProgress)},
	}
}

// IsMovie reports whether the record is a movie.
func (r *Record) IsMovie() bool { return r.Kind == KindMovie }

// IsSeries reports whether the record is a series.
func (r *Record) IsSeries() bool { return r.Kind == KindSeries }

// Runtime returns the movie runtime in minutes, or 0 when unknown or not a movie.
func (r *Record) Runtime() int {
	if r.Kind != KindMovie || r.Movie == nil || r.Movie.Runtime == nil {
		return 0
	}
	return *r.Movie.Runtime
}

// FirstEpisodeRuntime returns the first listed episode runtime, or 0.
func (r *Record) FirstEpisodeRuntime() int {
	if r.Kind != KindSeries || r.Series == nil || len(r.Series.EpisodeRuntime) == 0 {
		return 0
	}
	return r.Series.EpisodeRuntime[0]
}

// Seasons returns the seasons map for a series, nil otherwise.
func (r *Record) Seasons() map[string]*SeasonProgress {
	if r.Kind != KindSeries || r.Series == nil {
		return nil
	}
	return r.Series.Seasons
}

// Season returns the progress for the given season key.
func (r *Record) Season(key string) (*SeasonProgress, bool) {
	sp, ok := r.Seasons()[key]
	return sp, ok && sp != nil
}

// SeasonKeys returns the season keys sorted numerically; non-numeric keys sort last.
func (r *Record) SeasonKeys() []string {
	seasons := r.Seasons()
	keys := make([]string, 0, len(seasons))
	for k := range seasons {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Normalize repairs a decoded record so the kind/payload invariant holds:
// the payload for Kind is allocated, the other one dropped, and every
// season counter clamped.
func (r *Record) Normalize() {
	if !r.Status.Valid() {
		r.Status = StatusPlanToWatch
	}
	switch r.Kind {
	case KindMovie:
		r.Series = nil
		if r.Movie == nil {
			r.Movie = &MovieDetails{}
		}
	case KindSeries:
		r.Movie = nil
		if r.Series == nil {
			r.Series = &SeriesDetails{}
		}
		if r.Series.Seasons == nil {
			r.Series.Seasons = make(map[string]*SeasonProgress)
		}
		for k, sp := range r.Series.Seasons {
			if sp == nil {
				delete(r.Series.Seasons, k)
				continue
			}
			sp.clamp()
		}
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() Record {
	c := *r
	c.PosterPath = clonePtr(r.PosterPath)
	c.IMDBID = clonePtr(r.IMDBID)
	c.TVDBID = clonePtr(r.TVDBID)
	if r.Genres != nil {
		c.Genres = append([]string(nil), r.Genres...)
	}
	if r.Movie != nil {
		c.Movie = &MovieDetails{Runtime: clonePtr(r.Movie.Runtime)}
	}
	if r.Series != nil {
		c.Series = &SeriesDetails{
			SeasonCount:      clonePtr(r.Series.SeasonCount),
			ProductionStatus: clonePtr(r.Series.ProductionStatus),
			Seasons:          CloneSeasons(r.Series.Seasons),
		}
		if r.Series.EpisodeRuntime != nil {
			c.Series.EpisodeRuntime = append([]int(nil), r.Series.EpisodeRuntime...)
		}
	}
	return c
}

// CloneSeasons deep-copies a seasons map.
func CloneSeasons(in map[string]*SeasonProgress) map[string]*SeasonProgress {
	if in == nil {
		return nil
	}
	out := make(map[string]*SeasonProgress, len(in))
	for k, sp := range in {
		if sp == nil {
			continue
		}
		cp := sp.Clone()
		out[k] = &cp
	}
	return out
}

// AddGenre appends a genre tag unless it is already present.
func (r *Record) AddGenre(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	for _, g := range r.Genres {
		if g == name {
			return
		}
	}
	r.Genres = append(r.Genres, name)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
